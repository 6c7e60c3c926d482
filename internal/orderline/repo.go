package orderline

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/database"
)

// Repository has no single-row lookup; lines are read per order or all at once.
type Repository interface {
	Insert(ctx context.Context, l *OrderLine) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, l *OrderLine) error
	FindAll(ctx context.Context) ([]OrderLine, error)
	FindByOrderID(ctx context.Context, orderID int64) ([]OrderLine, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, l *OrderLine) error {
	return insert(ctx, r.db, l)
}

func (r *repo) InsertTx(ctx context.Context, tx *sqlx.Tx, l *OrderLine) error {
	return insert(ctx, tx, l)
}

func insert(ctx context.Context, q database.Querier, l *OrderLine) error {
	_, err := q.ExecContext(ctx, q.Rebind(createOrderLineSQL),
		l.OrderID,
		l.ProductID,
		l.Quantity,
		l.UnitPrice,
	)
	if err != nil {
		return database.Wrap("insert order line", err)
	}
	return nil
}

func (r *repo) FindAll(ctx context.Context) ([]OrderLine, error) {
	out := []OrderLine{}
	if err := r.db.SelectContext(ctx, &out, getAllOrderLinesSQL); err != nil {
		return nil, database.Wrap("get all order lines", err)
	}
	return out, nil
}

func (r *repo) FindByOrderID(ctx context.Context, orderID int64) ([]OrderLine, error) {
	out := []OrderLine{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(getOrderLinesByOrderSQL), orderID); err != nil {
		return nil, database.Wrap("get order lines", err)
	}
	return out, nil
}
