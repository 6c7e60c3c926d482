package orderline

import "errors"

// Validation errors
var (
	ErrInvalidQuantity   = errors.New("order line quantity must be positive")
	ErrNegativeUnitPrice = errors.New("order line unit price must not be negative")
)

// OrderLine joins an order to a product. UnitPrice is the price at the time
// the order was placed and does not follow later product price changes.
type OrderLine struct {
	OrderID   int64   `db:"order_id" json:"order_id"`
	ProductID int64   `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
}

func (l *OrderLine) Validate() error {
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if l.UnitPrice < 0 {
		return ErrNegativeUnitPrice
	}
	return nil
}
