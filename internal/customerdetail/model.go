package customerdetail

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrCustomerIDRequired is returned for a detail without the id of its customer.
var ErrCustomerIDRequired = errors.New("customer detail requires the customer id")

// CustomerDetail is the 1:1 extension of a customer; ID is the customer's id.
// A nil Phone means the phone is unknown.
type CustomerDetail struct {
	ID      int64   `db:"customer_id" json:"id"`
	Address string  `db:"address" json:"address"`
	Phone   *string `db:"phone" json:"phone"`
	Notes   string  `db:"notes" json:"notes"`
}

func (d *CustomerDetail) Validate() error {
	if d.ID <= 0 {
		return ErrCustomerIDRequired
	}
	return nil
}

// phoneValue is the value bound for the phone column: NULL for a missing or
// blank phone, the trimmed phone otherwise.
func phoneValue(phone *string) sql.NullString {
	if phone == nil {
		return sql.NullString{}
	}
	p := strings.TrimSpace(*phone)
	if p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: p, Valid: true}
}
