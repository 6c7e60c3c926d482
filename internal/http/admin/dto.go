package admin

// -------------------------
// Customer DTOs
// -------------------------

// CreateCustomerRequest creates a customer and, when Detail is set, its
// detail record in the same transaction. ID 0 lets the store assign one.
type CreateCustomerRequest struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Detail *DetailRequest `json:"detail"`
}

type UpdateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DetailRequest carries a customer's detail. A missing or blank phone is
// stored as unknown.
type DetailRequest struct {
	Address string  `json:"address"`
	Phone   *string `json:"phone"`
	Notes   string  `json:"notes"`
}

// -------------------------
// Product DTOs
// -------------------------

type CreateProductRequest struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// -------------------------
// Order DTOs
// -------------------------

// CreateOrderRequest places an order with its lines. Date is YYYY-MM-DD and
// defaults to today.
type CreateOrderRequest struct {
	ID         int64              `json:"id"`
	CustomerID int64              `json:"customer_id"`
	Date       string             `json:"date"`
	Lines      []OrderLineRequest `json:"lines"`
}

// OrderLineRequest is one line of a new order. A nil UnitPrice takes the
// product's current price.
type OrderLineRequest struct {
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
}

type errorResponse struct {
	Error string `json:"error"`
}
