package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/database"
)

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, o *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindAll(ctx context.Context) ([]Order, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, o *Order) error {
	return insert(ctx, r.db, o)
}

func (r *repo) InsertTx(ctx context.Context, tx *sqlx.Tx, o *Order) error {
	return insert(ctx, tx, o)
}

func insert(ctx context.Context, q database.Querier, o *Order) error {
	var id int64
	var err error
	if o.ID == 0 {
		err = q.GetContext(ctx, &id, q.Rebind(createOrderAutoIDSQL), o.CustomerID, dateValue(o.Date))
	} else {
		err = q.GetContext(ctx, &id, q.Rebind(createOrderSQL), o.ID, o.CustomerID, dateValue(o.Date))
	}
	if err != nil {
		return database.Wrap("insert order", err)
	}
	if o.ID != 0 {
		if err := database.SyncIdentity(ctx, q, "orders", "order_id"); err != nil {
			return err
		}
	}
	o.ID = id
	return nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(getOrderSQL), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Wrap("get order", err)
	}
	o := toOrder(row)
	return &o, nil
}

func (r *repo) FindAll(ctx context.Context) ([]Order, error) {
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, getAllOrdersSQL); err != nil {
		return nil, database.Wrap("get all orders", err)
	}
	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrder(row))
	}
	return out, nil
}
