package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"lampreasvioleta.com/storefront/internal/customer"
	"lampreasvioleta.com/storefront/internal/http/admin"
	"lampreasvioleta.com/storefront/internal/http/web"
	"lampreasvioleta.com/storefront/internal/middleware"
	"lampreasvioleta.com/storefront/internal/order"
	"lampreasvioleta.com/storefront/internal/product"
	"lampreasvioleta.com/storefront/internal/testutil"
)

const testAPIKey = "web-test-key"

type server struct {
	e        *echo.Echo
	db       *sqlx.DB
	sessions *middleware.MemorySessionStore
}

func newServer(t *testing.T, csrf bool) *server {
	t.Helper()
	db := testutil.NewTestDB(t)
	sessions := middleware.NewMemorySessionStore(time.Hour)

	svc := admin.NewService(
		customer.NewService(db),
		product.NewService(db),
		order.NewService(db),
	)

	e := echo.New()
	mws := []echo.MiddlewareFunc{middleware.WebAuth(testAPIKey, sessions)}
	if csrf {
		mws = append(mws, middleware.CSRFConfig())
	}
	mws = append(mws, middleware.CSRF(), middleware.Version())
	g := e.Group("/web", mws...)
	web.RegisterRoutes(g, web.NewHandler(svc, testAPIKey, sessions))

	return &server{e: e, db: db, sessions: sessions}
}

func (s *server) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, db *sqlx.DB) {
	t.Helper()
	testutil.Exec(t, db, `INSERT INTO customer (customer_id, name, email) VALUES
		(1, 'Ana', 'ana@gmail.com'),
		(2, 'Bob', 'bob@yahoo.com'),
		(3, 'Carla', 'carla@gmail.com')`)
}

func TestLogin(t *testing.T) {
	s := newServer(t, false)

	t.Run("rejects wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/web/login", strings.NewReader("api_key=nope"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "no válida") {
			t.Errorf("expected error message in page: %s", rec.Body.String())
		}
	})

	t.Run("session cookie grants access until logout", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/web/login", strings.NewReader("api_key="+testAPIKey))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected status 302, got %d", rec.Code)
		}
		var session *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.SessionCookieName {
				session = c
			}
		}
		if session == nil || session.Value == "" {
			t.Fatal("expected session cookie")
		}
		if session.Value == testAPIKey {
			t.Error("session cookie must not carry the admin key")
		}

		req = httptest.NewRequest(http.MethodGet, "/web/customers", nil)
		req.AddCookie(session)
		rec = httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200 with session, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodPost, "/web/logout", nil)
		req.AddCookie(session)
		rec = httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("expected status 302 from logout, got %d", rec.Code)
		}
		if _, ok := s.sessions.Get(session.Value); ok {
			t.Error("expected session to be deleted on logout")
		}
	})

	t.Run("redirects anonymous users", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/web/customers", nil)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Errorf("expected status 302, got %d", rec.Code)
		}
	})
}

func TestListCustomers(t *testing.T) {
	s := newServer(t, false)
	seed(t, s.db)

	tests := []struct {
		name    string
		query   string
		want    []string
		notWant []string
	}{
		{"all", "", []string{"Ana", "Bob", "Carla"}, nil},
		{"blank query lists all", "%20%20", []string{"Ana", "Bob", "Carla"}, nil},
		{"by email", "GMAIL", []string{"Ana", "Carla"}, []string{"Bob"}},
		{"by id", "2", []string{"Bob"}, []string{"Ana", "Carla"}},
		{"no match", "zzz", []string{"No hay clientes"}, []string{"Ana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.get(t, "/web/customers?q="+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			body := rec.Body.String()
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("expected %q in page", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(body, w) {
					t.Errorf("did not expect %q in page", w)
				}
			}
		})
	}
}

func TestListEscapesNames(t *testing.T) {
	s := newServer(t, false)
	testutil.Exec(t, s.db, `INSERT INTO customer (customer_id, name, email) VALUES (1, '<script>x</script>', '')`)

	body := s.get(t, "/web/customers").Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("customer name rendered unescaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped customer name")
	}
}

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()
	s := newServer(t, false)
	customers := customer.NewService(s.db)

	rec := s.post(t, "/web/customers", url.Values{
		"id":      {"7"},
		"name":    {"Dora"},
		"email":   {"dora@x.com"},
		"address": {"Calle 7"},
		"phone":   {"   "},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", rec.Code, rec.Body.String())
	}

	c, err := customers.Get(ctx, 7)
	if err != nil || c == nil {
		t.Fatalf("expected customer 7, got %v, %v", c, err)
	}
	d, err := customers.GetDetail(ctx, 7)
	if err != nil || d == nil {
		t.Fatalf("expected detail 7, got %v, %v", d, err)
	}
	if d.Phone != nil {
		t.Errorf("expected blank phone stored as NULL, got %q", *d.Phone)
	}

	t.Run("duplicate id", func(t *testing.T) {
		rec := s.post(t, "/web/customers", url.Values{"id": {"7"}, "name": {"Otra"}})
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `value="Otra"`) {
			t.Error("expected form to keep submitted values")
		}
	})

	t.Run("blank name", func(t *testing.T) {
		rec := s.post(t, "/web/customers", url.Values{"name": {"  "}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("non numeric id", func(t *testing.T) {
		rec := s.post(t, "/web/customers", url.Values{"id": {"abc"}, "name": {"Eva"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("without detail fields", func(t *testing.T) {
		rec := s.post(t, "/web/customers", url.Values{"id": {"8"}, "name": {"Eva"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected status 303, got %d", rec.Code)
		}
		d, err := customers.GetDetail(ctx, 8)
		if err != nil {
			t.Fatalf("get detail: %v", err)
		}
		if d != nil {
			t.Errorf("expected no detail row, got %+v", d)
		}
	})
}

func TestDeleteCustomer(t *testing.T) {
	s := newServer(t, false)
	seed(t, s.db)
	testutil.Exec(t, s.db, `INSERT INTO orders (order_id, customer_id, order_date) VALUES (1, 2, '2024-01-02')`)

	if rec := s.post(t, "/web/customers/1/delete", nil); rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if n := testutil.Count(t, s.db, `SELECT COUNT(*) FROM customer WHERE customer_id = 1`); n != 0 {
		t.Error("expected customer 1 to be deleted")
	}

	if rec := s.post(t, "/web/customers/1/delete", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	rec := s.post(t, "/web/customers/2/delete", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pedidos") {
		t.Error("expected explanation in page")
	}
}

func TestCSRFProtectsForms(t *testing.T) {
	s := newServer(t, true)

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/web/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var token *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			token = c
		}
	}
	if token == nil {
		t.Fatal("expected csrf cookie")
	}
	if !strings.Contains(rec.Body.String(), `value="`+token.Value+`"`) {
		t.Error("expected csrf token in login form")
	}

	post := func(form url.Values) int {
		req := httptest.NewRequest(http.MethodPost, "/web/login", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(token)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post(url.Values{"api_key": {testAPIKey}}); code < 400 {
		t.Errorf("expected rejection without token, got %d", code)
	}
	if code := post(url.Values{"api_key": {testAPIKey}, middleware.CSRFForm: {token.Value}}); code != http.StatusFound {
		t.Errorf("expected status 302 with token, got %d", code)
	}
}
