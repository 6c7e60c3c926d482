package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lampreasvioleta.com/storefront/internal/customer"
	"lampreasvioleta.com/storefront/internal/customerdetail"
	"lampreasvioleta.com/storefront/internal/order"
	"lampreasvioleta.com/storefront/internal/orderline"
	"lampreasvioleta.com/storefront/internal/product"
)

// Request errors reported as 400 Bad Request.
var (
	ErrInvalidDate    = errors.New("date must be in YYYY-MM-DD format")
	ErrUnknownProduct = errors.New("unknown product")
)

// ErrCustomerExists is returned when creating a customer whose id is taken.
var ErrCustomerExists = errors.New("customer already exists")

type Service struct {
	customers *customer.Service
	products  *product.Service
	orders    *order.Service
}

func NewService(c *customer.Service, p *product.Service, o *order.Service) *Service {
	return &Service{
		customers: c,
		products:  p,
		orders:    o,
	}
}

// -------------------------
// Customers
// -------------------------

// FindCustomers lists all customers, or only those matching query when its
// trimmed form is not empty.
func (s *Service) FindCustomers(ctx context.Context, query string) ([]customer.Customer, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.customers.GetAll(ctx)
	}
	return s.customers.Search(ctx, q)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.customers.Get(ctx, id)
}

// CreateCustomer refuses an id that is already in use before inserting.
func (s *Service) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*customer.Customer, error) {
	c := &customer.Customer{
		ID:    req.ID,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.ID != 0 {
		existing, err := s.customers.Get(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w (%d)", ErrCustomerExists, c.ID)
		}
	}

	var d *customerdetail.CustomerDetail
	if req.Detail != nil {
		d = &customerdetail.CustomerDetail{
			Address: req.Detail.Address,
			Phone:   req.Detail.Phone,
			Notes:   req.Detail.Notes,
		}
	}
	return s.customers.Create(ctx, c, d)
}

// UpdateCustomer returns false when no customer has the id.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, req *UpdateCustomerRequest) (bool, error) {
	c := &customer.Customer{
		ID:    id,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}
	n, err := s.customers.Update(ctx, c)
	return n > 0, err
}

// DeleteCustomer returns false when no customer has the id.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	n, err := s.customers.Delete(ctx, id)
	return n > 0, err
}

func (s *Service) GetCustomerDetail(ctx context.Context, id int64) (*customerdetail.CustomerDetail, error) {
	return s.customers.GetDetail(ctx, id)
}

// UpdateCustomerDetail returns false when the customer has no detail.
func (s *Service) UpdateCustomerDetail(ctx context.Context, id int64, req *DetailRequest) (bool, error) {
	d := &customerdetail.CustomerDetail{
		ID:      id,
		Address: req.Address,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}
	n, err := s.customers.UpdateDetail(ctx, d)
	return n > 0, err
}

// DeleteCustomerDetail returns false when the customer has no detail.
func (s *Service) DeleteCustomerDetail(ctx context.Context, id int64) (bool, error) {
	n, err := s.customers.DeleteDetail(ctx, id)
	return n > 0, err
}

// -------------------------
// Products
// -------------------------

func (s *Service) GetProducts(ctx context.Context) ([]product.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*product.Product, error) {
	p := &product.Product{
		ID:    req.ID,
		Name:  strings.TrimSpace(req.Name),
		Price: req.Price,
	}
	return s.products.Create(ctx, p)
}

// -------------------------
// Orders
// -------------------------

func (s *Service) GetOrders(ctx context.Context) ([]order.Order, error) {
	return s.orders.GetAll(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*order.WithLines, error) {
	return s.orders.GetWithLines(ctx, id)
}

// CreateOrder fills in missing unit prices from the current product prices
// and stores the order with its lines atomically.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*order.WithLines, error) {
	o := &order.Order{ID: req.ID, CustomerID: req.CustomerID}
	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		o.Date = d
	}

	lines := make([]orderline.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		line := orderline.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		} else {
			p, err := s.products.Get(ctx, l.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("%w (%d)", ErrUnknownProduct, l.ProductID)
			}
			line.UnitPrice = p.Price
		}
		lines = append(lines, line)
	}

	return s.orders.CreateWithLines(ctx, o, lines)
}
