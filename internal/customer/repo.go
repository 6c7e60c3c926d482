package customer

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/database"
)

// Repository is the data-access component for customers. Methods ending in
// Tx run on a caller-owned transaction and never commit or roll it back.
type Repository interface {
	Insert(ctx context.Context, c *Customer) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, c *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
	Search(ctx context.Context, pattern string) ([]Customer, error)
	Update(ctx context.Context, c *Customer) (int64, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (int64, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, c *Customer) error {
	return insert(ctx, r.db, c)
}

func (r *repo) InsertTx(ctx context.Context, tx *sqlx.Tx, c *Customer) error {
	return insert(ctx, tx, c)
}

// insert stores c and copies the stored id back into c.ID. c is left
// untouched when the insert fails.
func insert(ctx context.Context, q database.Querier, c *Customer) error {
	var id int64
	var err error
	if c.ID == 0 {
		err = q.GetContext(ctx, &id, q.Rebind(createCustomerAutoIDSQL), c.Name, c.Email)
	} else {
		err = q.GetContext(ctx, &id, q.Rebind(createCustomerSQL), c.ID, c.Name, c.Email)
	}
	if err != nil {
		return database.Wrap("insert customer", err)
	}
	if c.ID != 0 {
		if err := database.SyncIdentity(ctx, q, "customer", "customer_id"); err != nil {
			return err
		}
	}
	c.ID = id
	return nil
}

// FindByID returns (nil, nil) when no customer has the id.
func (r *repo) FindByID(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, r.db.Rebind(getCustomerSQL), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Wrap("get customer", err)
	}
	return &c, nil
}

func (r *repo) FindAll(ctx context.Context) ([]Customer, error) {
	out := []Customer{}
	if err := r.db.SelectContext(ctx, &out, getAllCustomersSQL); err != nil {
		return nil, database.Wrap("get all customers", err)
	}
	return out, nil
}

// Search matches pattern as a case-insensitive substring of the id, name or
// email. The pattern is used verbatim, so an empty pattern matches every row.
func (r *repo) Search(ctx context.Context, pattern string) ([]Customer, error) {
	like := "%" + pattern + "%"
	out := []Customer{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(searchCustomersSQL), like, like, like)
	if err != nil {
		return nil, database.Wrap("search customers", err)
	}
	return out, nil
}

func (r *repo) Update(ctx context.Context, c *Customer) (int64, error) {
	return update(ctx, r.db, c)
}

func (r *repo) UpdateTx(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error) {
	return update(ctx, tx, c)
}

func update(ctx context.Context, q database.Querier, c *Customer) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(updateCustomerSQL), c.Name, c.Email, c.ID)
	if err != nil {
		return 0, database.Wrap("update customer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, database.Wrap("update customer", err)
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
	res, err := q.ExecContext(ctx, q.Rebind(deleteCustomerSQL), id)
	if err != nil {
		return 0, database.Wrap("delete customer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, database.Wrap("delete customer", err)
	}
	return n, nil
}
