package customer

import (
	"errors"
	"strings"
)

// Validation errors
var (
	ErrNameRequired = errors.New("customer name is required")
	ErrInvalidID    = errors.New("customer id must be a positive integer")
)

// Customer mirrors one row of the customer table. An ID of 0 asks the store
// to assign one on insert.
type Customer struct {
	ID    int64  `db:"customer_id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Validate checks business rules for a customer
func (c *Customer) Validate() error {
	if c.ID < 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	return nil
}
