package product

import "errors"

var ErrNegativePrice = errors.New("product price must not be negative")

// Product is an item that can be ordered. Price is the current list price;
// order lines keep their own copy.
type Product struct {
	ID    int64   `db:"product_id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Price float64 `db:"price" json:"price"`
}

func (p *Product) Validate() error {
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}
