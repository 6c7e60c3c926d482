package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/database"
)

type Repository interface {
	Insert(ctx context.Context, p *Product) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, p *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, p *Product) error {
	return insert(ctx, r.db, p)
}

func (r *repo) InsertTx(ctx context.Context, tx *sqlx.Tx, p *Product) error {
	return insert(ctx, tx, p)
}

func insert(ctx context.Context, q database.Querier, p *Product) error {
	var id int64
	var err error
	if p.ID == 0 {
		err = q.GetContext(ctx, &id, q.Rebind(createProductAutoIDSQL), p.Name, p.Price)
	} else {
		err = q.GetContext(ctx, &id, q.Rebind(createProductSQL), p.ID, p.Name, p.Price)
	}
	if err != nil {
		return database.Wrap("insert product", err)
	}
	if p.ID != 0 {
		if err := database.SyncIdentity(ctx, q, "product", "product_id"); err != nil {
			return err
		}
	}
	p.ID = id
	return nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(getProductSQL), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Wrap("get product", err)
	}
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context) ([]Product, error) {
	out := []Product{}
	if err := r.db.SelectContext(ctx, &out, getAllProductsSQL); err != nil {
		return nil, database.Wrap("get all products", err)
	}
	return out, nil
}
