package order

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/database"
	"lampreasvioleta.com/storefront/internal/orderline"
)

type Service struct {
	repo  Repository
	lines orderline.Repository
	db    *sqlx.DB
	now   func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:    db,
		repo:  New(db),
		lines: orderline.New(db),
		now:   time.Now,
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return database.WithTx(ctx, s.db, fn)
}

func (s *Service) GetAll(ctx context.Context) ([]Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.FindByID(ctx, id)
}

// GetWithLines returns (nil, nil) when the order does not exist.
func (s *Service) GetWithLines(ctx context.Context, id int64) (*WithLines, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	lines, err := s.lines.FindByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WithLines{Order: *o, Lines: lines}, nil
}

// CreateWithLines stores o and its lines in one transaction. A zero Date
// means today. Each line's OrderID is taken from the stored order.
func (s *Service) CreateWithLines(ctx context.Context, o *Order, lines []orderline.OrderLine) (*WithLines, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return nil, err
		}
	}

	created := *o
	if created.Date.IsZero() {
		created.Date = s.now()
	}
	created.Date = DateOf(created.Date)

	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, &created); err != nil {
			return err
		}
		for _, l := range lines {
			l.OrderID = created.ID
			if err := s.lines.InsertTx(ctx, tx, &l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.ID = created.ID
	return s.GetWithLines(ctx, created.ID)
}
