package order

import (
	"errors"
	"time"

	"lampreasvioleta.com/storefront/internal/orderline"
)

// Validation errors
var (
	ErrInvalidID        = errors.New("order id must be a positive integer")
	ErrCustomerRequired = errors.New("order requires a customer id")
	ErrNoLines          = errors.New("order requires at least one line")
)

// Order is placed by one customer on a calendar date. Date carries no time
// of day and is always in UTC.
type Order struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Date       time.Time `json:"date"`
}

// WithLines is an order together with its lines, ordered by product id.
type WithLines struct {
	Order
	Lines []orderline.OrderLine `json:"lines"`
}

func (o *Order) Validate() error {
	if o.ID < 0 {
		return ErrInvalidID
	}
	if o.CustomerID <= 0 {
		return ErrCustomerRequired
	}
	return nil
}

// orderRow is how an order comes back from the store.
type orderRow struct {
	ID         int64     `db:"order_id"`
	CustomerID int64     `db:"customer_id"`
	OrderDate  time.Time `db:"order_date"`
}

// toOrder is the only conversion from a stored row, so every read interprets
// order_date the same way.
func toOrder(r orderRow) Order {
	return Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Date:       DateOf(r.OrderDate),
	}
}

// DateOf drops the time of day from t, keeping t's calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateValue is the value bound for the order_date column.
func dateValue(t time.Time) string {
	return DateOf(t).Format(time.DateOnly)
}
