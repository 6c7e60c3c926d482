package customerdetail_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/customerdetail"
	"lampreasvioleta.com/storefront/internal/database"
	"lampreasvioleta.com/storefront/internal/testutil"
)

func strPtr(s string) *string { return &s }

func seedCustomer(t *testing.T, db *sqlx.DB, id int64) {
	t.Helper()
	testutil.Exec(t, db, `INSERT INTO customer (customer_id, name, email) VALUES (?, ?, ?)`, id, "Ana", "ana@x.com")
}

func TestInsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := customerdetail.New(db)
	seedCustomer(t, db, 1)

	d := &customerdetail.CustomerDetail{ID: 1, Address: "Calle 1", Phone: nil, Notes: "vip"}
	if err := repo.Insert(ctx, d); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatal("expected detail, got nil")
	}
	if got.Address != "Calle 1" || got.Notes != "vip" {
		t.Errorf("unexpected detail: %+v", got)
	}
	if got.Phone != nil {
		t.Errorf("expected absent phone, got %q", *got.Phone)
	}
}

func TestPhoneNormalization(t *testing.T) {
	tests := []struct {
		name  string
		phone *string
		want  *string
	}{
		{"nil", nil, nil},
		{"empty", strPtr(""), nil},
		{"whitespace", strPtr("   "), nil},
		{"tabs and newlines", strPtr("\t\n"), nil},
		{"trimmed", strPtr("  555-0100 "), strPtr("555-0100")},
		{"plain", strPtr("555-0199"), strPtr("555-0199")},
	}

	for _, tt := range tests {
		for _, viaTx := range []bool{false, true} {
			name := tt.name
			if viaTx {
				name += "/tx"
			}
			t.Run(name, func(t *testing.T) {
				ctx := context.Background()
				db := testutil.NewTestDB(t)
				repo := customerdetail.New(db)
				seedCustomer(t, db, 1)

				d := &customerdetail.CustomerDetail{ID: 1, Phone: tt.phone}
				var err error
				if viaTx {
					err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
						return repo.InsertTx(ctx, tx, d)
					})
				} else {
					err = repo.Insert(ctx, d)
				}
				if err != nil {
					t.Fatalf("insert: %v", err)
				}

				var stored sql.NullString
				if err := db.Get(&stored, `SELECT phone FROM customer_detail WHERE customer_id = 1`); err != nil {
					t.Fatalf("read phone: %v", err)
				}
				if tt.want == nil {
					if stored.Valid {
						t.Errorf("expected NULL phone, got %q", stored.String)
					}
					return
				}
				if !stored.Valid || stored.String != *tt.want {
					t.Errorf("expected phone %q, got %+v", *tt.want, stored)
				}
			})
		}
	}
}

func TestInsertRequiresExistingCustomer(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := customerdetail.New(db)

	err := repo.Insert(context.Background(), &customerdetail.CustomerDetail{ID: 9})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
	if !database.IsForeignKeyViolation(err) {
		t.Errorf("expected foreign key violation, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := customerdetail.New(db)
	seedCustomer(t, db, 1)

	if err := repo.Insert(ctx, &customerdetail.CustomerDetail{ID: 1, Address: "Calle 1", Phone: strPtr("555")}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := repo.Update(ctx, &customerdetail.CustomerDetail{ID: 1, Address: "Calle 2", Phone: strPtr(" "), Notes: "moved"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row updated, got %d", n)
	}

	got, _ := repo.FindByID(ctx, 1)
	if got.Address != "Calle 2" || got.Notes != "moved" {
		t.Errorf("unexpected detail after update: %+v", got)
	}
	if got.Phone != nil {
		t.Errorf("expected blank phone to become NULL, got %q", *got.Phone)
	}
}

func TestUpdateMissingReturnsZero(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := customerdetail.New(db)
	seedCustomer(t, db, 1)

	if err := repo.Insert(ctx, &customerdetail.CustomerDetail{ID: 1, Address: "Calle 1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := repo.Update(ctx, &customerdetail.CustomerDetail{ID: 2, Address: "Nowhere"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 rows updated, got %d", n)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 || all[0].Address != "Calle 1" {
		t.Errorf("store changed by a no-op update: %+v", all)
	}
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := customerdetail.New(db)
	seedCustomer(t, db, 1)
	seedCustomer(t, db, 2)

	for _, id := range []int64{1, 2} {
		if err := repo.Insert(ctx, &customerdetail.CustomerDetail{ID: id}); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}

	n, err := repo.DeleteByID(ctx, 99)
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 rows deleted, got %d", n)
	}

	n, err = repo.DeleteByID(ctx, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row deleted, got %d", n)
	}

	got, err := repo.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("find after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected not found, got %+v", got)
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 1 || all[0].ID != 2 {
		t.Errorf("expected only detail 2 to remain, got %+v", all)
	}
}

func TestFindAllEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := customerdetail.New(db)

	all, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", all)
	}
}
