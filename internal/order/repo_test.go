package order_test

import (
	"context"
	"testing"
	"time"

	"lampreasvioleta.com/storefront/internal/database"
	"lampreasvioleta.com/storefront/internal/order"
	"lampreasvioleta.com/storefront/internal/testutil"
)

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := order.New(db)
	testutil.Exec(t, db, `INSERT INTO customer (customer_id, name) VALUES (1, 'Ana')`)

	placed := time.Date(2024, time.March, 5, 23, 30, 0, 0, time.UTC)
	o := &order.Order{ID: 7, CustomerID: 1, Date: placed}
	if err := repo.Insert(ctx, o); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.FindByID(ctx, 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatal("expected order, got nil")
	}
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, got.Date)
	}
	if got.CustomerID != 1 {
		t.Errorf("expected customer 1, got %d", got.CustomerID)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 || all[0] != *got {
		t.Errorf("find all and find by id disagree: %+v vs %+v", all, *got)
	}
}

func TestInsertAssignsID(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := order.New(db)
	testutil.Exec(t, db, `INSERT INTO customer (customer_id, name) VALUES (1, 'Ana')`)

	o := &order.Order{CustomerID: 1, Date: time.Now()}
	if err := repo.Insert(ctx, o); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if o.ID == 0 {
		t.Error("expected store-assigned ID")
	}
}

func TestInsertUnknownCustomer(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := order.New(db)

	o := &order.Order{CustomerID: 42, Date: time.Now()}
	err := repo.Insert(context.Background(), o)
	if !database.IsForeignKeyViolation(err) {
		t.Errorf("expected foreign key violation, got %v", err)
	}
	if o.ID != 0 {
		t.Errorf("failed insert assigned ID %d", o.ID)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := order.New(db)

	got, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}

	all, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", all)
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, time.December, 31, 22, 15, 0, 0, time.FixedZone("X", -5*3600))
	got := order.DateOf(in)
	want := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
