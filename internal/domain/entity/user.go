// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is applied to new users that did not choose one.
const DefaultCurrency = "USD"

// User represents an account in the BudgetFlow system.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	Currency           string // Default currency for new budget templates
	EmailNotifications bool   // Opt-in for generated-budget notifications
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser creates a new User with default values.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		PasswordHash:       passwordHash,
		Currency:           DefaultCurrency,
		EmailNotifications: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
