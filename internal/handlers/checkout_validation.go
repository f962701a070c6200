package handlers

import "storefront/internal/models"

// CheckoutInput is the JSON body for POST /v1/checkout.
type CheckoutInput struct {
	ShippingAddress models.Address  `json:"shipping_address"`
	SameAsShipping  bool            `json:"same_as_shipping"`
	BillingAddress  *models.Address `json:"billing_address"`

	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number"`
	CardExpiry    string `json:"card_expiry"`
	CardCVC       string `json:"card_cvc"`
	CardName      string `json:"card_name"`

	Notes string `json:"notes"`
}

// validateCheckoutInput checks that every required field is present.
// Presence only: card fields are not semantically validated (no Luhn
// check, no expiry parsing). Returns the missing field names.
func validateCheckoutInput(in CheckoutInput) []string {
	missing := []string{}

	checkAddress := func(prefix string, a models.Address) {
		if a.Street == "" {
			missing = append(missing, prefix+"_street")
		}
		if a.City == "" {
			missing = append(missing, prefix+"_city")
		}
		if a.State == "" {
			missing = append(missing, prefix+"_state")
		}
		if a.Zip == "" {
			missing = append(missing, prefix+"_zip")
		}
	}

	checkAddress("shipping", in.ShippingAddress)
	if !in.SameAsShipping {
		if in.BillingAddress == nil {
			missing = append(missing, "billing_address")
		} else {
			checkAddress("billing", *in.BillingAddress)
		}
	}

	if in.CardNumber == "" {
		missing = append(missing, "card_number")
	}
	if in.CardExpiry == "" {
		missing = append(missing, "card_expiry")
	}
	if in.CardCVC == "" {
		missing = append(missing, "card_cvc")
	}
	if in.CardName == "" {
		missing = append(missing, "card_name")
	}

	return missing
}

// resolveBillingAddress picks the billing address, defaulting to the
// shipping address when "same as shipping" is set.
func resolveBillingAddress(in CheckoutInput) models.Address {
	if in.SameAsShipping || in.BillingAddress == nil {
		return in.ShippingAddress
	}
	return *in.BillingAddress
}
