package customerdetail

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/database"
)

// Repository is the data-access component for customer details.
// Update and DeleteByID report rows affected; 0 means no detail had the id.
type Repository interface {
	Insert(ctx context.Context, d *CustomerDetail) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, d *CustomerDetail) error
	FindByID(ctx context.Context, id int64) (*CustomerDetail, error)
	FindAll(ctx context.Context) ([]CustomerDetail, error)
	Update(ctx context.Context, d *CustomerDetail) (int64, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, d *CustomerDetail) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (int64, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, d *CustomerDetail) error {
	return insert(ctx, r.db, d)
}

func (r *repo) InsertTx(ctx context.Context, tx *sqlx.Tx, d *CustomerDetail) error {
	return insert(ctx, tx, d)
}

func insert(ctx context.Context, q database.Querier, d *CustomerDetail) error {
	_, err := q.ExecContext(ctx, q.Rebind(createDetailSQL),
		d.ID,
		d.Address,
		phoneValue(d.Phone),
		d.Notes,
	)
	if err != nil {
		return database.Wrap("insert customer detail", err)
	}
	return nil
}

// FindByID returns (nil, nil) when no detail has the id.
func (r *repo) FindByID(ctx context.Context, id int64) (*CustomerDetail, error) {
	var d CustomerDetail
	err := r.db.GetContext(ctx, &d, r.db.Rebind(getDetailSQL), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Wrap("get customer detail", err)
	}
	return &d, nil
}

func (r *repo) FindAll(ctx context.Context) ([]CustomerDetail, error) {
	out := []CustomerDetail{}
	if err := r.db.SelectContext(ctx, &out, getAllDetailsSQL); err != nil {
		return nil, database.Wrap("get all customer details", err)
	}
	return out, nil
}

func (r *repo) Update(ctx context.Context, d *CustomerDetail) (int64, error) {
	return update(ctx, r.db, d)
}

func (r *repo) UpdateTx(ctx context.Context, tx *sqlx.Tx, d *CustomerDetail) (int64, error) {
	return update(ctx, tx, d)
}

func update(ctx context.Context, q database.Querier, d *CustomerDetail) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(updateDetailSQL),
		d.Address,
		phoneValue(d.Phone),
		d.Notes,
		d.ID,
	)
	if err != nil {
		return 0, database.Wrap("update customer detail", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, database.Wrap("update customer detail", err)
	}
	return n, nil
}

func (r *repo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return deleteByID(ctx, r.db, id)
}

func (r *repo) DeleteByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (int64, error) {
	return deleteByID(ctx, tx, id)
}

func deleteByID(ctx context.Context, q database.Querier, id int64) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(deleteDetailSQL), id)
	if err != nil {
		return 0, database.Wrap("delete customer detail", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, database.Wrap("delete customer detail", err)
	}
	return n, nil
}
