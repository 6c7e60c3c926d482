package customer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/customerdetail"
	"lampreasvioleta.com/storefront/internal/database"
)

type Service struct {
	repo    Repository
	details customerdetail.Repository
	db      *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:      db,
		repo:    New(db),
		details: customerdetail.New(db),
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return database.WithTx(ctx, s.db, fn)
}

func (s *Service) GetAll(ctx context.Context) ([]Customer, error) {
	return s.repo.FindAll(ctx)
}

// Get returns (nil, nil) when the customer does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, pattern string) ([]Customer, error) {
	return s.repo.Search(ctx, pattern)
}

func (s *Service) GetDetail(ctx context.Context, id int64) (*customerdetail.CustomerDetail, error) {
	return s.details.FindByID(ctx, id)
}

func (s *Service) GetAllDetails(ctx context.Context) ([]customerdetail.CustomerDetail, error) {
	return s.details.FindAll(ctx)
}

// Create inserts c and, when d is not nil, its detail in one transaction.
// d.ID is set to the customer's stored id. Either both rows are stored or
// neither is.
func (s *Service) Create(ctx context.Context, c *Customer, d *customerdetail.CustomerDetail) (*Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	created := *c
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, &created); err != nil {
			return err
		}
		if d == nil {
			return nil
		}
		detail := *d
		detail.ID = created.ID
		return s.details.InsertTx(ctx, tx, &detail)
	})
	if err != nil {
		return nil, err
	}

	c.ID = created.ID
	if d != nil {
		d.ID = created.ID
	}
	return &created, nil
}

// Update returns the number of rows changed; 0 means no such customer.
func (s *Service) Update(ctx context.Context, c *Customer) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	var n int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		n, err = s.repo.UpdateTx(ctx, tx, c)
		return err
	})
	return n, err
}

// UpdateDetail replaces the detail of d.ID. A blank phone is stored as NULL.
func (s *Service) UpdateDetail(ctx context.Context, d *customerdetail.CustomerDetail) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	return s.details.Update(ctx, d)
}

// DeleteDetail removes only the detail of customer id.
func (s *Service) DeleteDetail(ctx context.Context, id int64) (int64, error) {
	return s.details.DeleteByID(ctx, id)
}

// Delete removes the customer; its detail goes with it. A customer that
// still has orders cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		n, err = s.repo.DeleteByIDTx(ctx, tx, id)
		return err
	})
	return n, err
}
