package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Address is stored as a JSON column on both profiles and orders.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Profile is the model for the 'profiles' table.
// Pointer fields map to NULLable columns for clean JSON serialization.
type Profile struct {
	ID           int64    `json:"id" db:"id"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	FullName     string   `json:"fullName" db:"full_name"`
	Role         string   `json:"role" db:"role"` // 'user' or 'admin'
	Phone        *string  `json:"phone,omitempty" db:"phone"`
	AvatarURL    *string  `json:"avatarUrl,omitempty" db:"avatar_url"`
	Address      *Address `json:"address,omitempty" db:"address"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Password wraps a bcrypt hash and (optionally) the plaintext it came from.
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
