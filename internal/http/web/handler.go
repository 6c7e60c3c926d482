package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"lampreasvioleta.com/storefront/internal/customer"
	"lampreasvioleta.com/storefront/internal/database"
	"lampreasvioleta.com/storefront/internal/http/admin"
	"lampreasvioleta.com/storefront/internal/logging"
	"lampreasvioleta.com/storefront/internal/middleware"
)

type Handler struct {
	svc      *admin.Service
	adminKey string
	sessions middleware.SessionStore
}

func NewHandler(svc *admin.Service, adminKey string, sessions middleware.SessionStore) *Handler {
	return &Handler{
		svc:      svc,
		adminKey: adminKey,
		sessions: sessions,
	}
}

func render(c echo.Context, status int, page templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return page.Render(c.Request().Context(), c.Response())
}

// --------------------------
// Authentication
// --------------------------

// LoginPage renders the login form
func (h *Handler) LoginPage(c echo.Context) error {
	return render(c, http.StatusOK, loginPage(""))
}

// Login handles login form submission
func (h *Handler) Login(c echo.Context) error {
	apiKey := c.FormValue("api_key")

	if !middleware.ValidateAdminKey(h.adminKey, apiKey) {
		return render(c, http.StatusUnauthorized, loginPage("API key no válida"))
	}

	// The cookie carries a session id, never the admin key
	sessionID := h.sessions.Create()

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(middleware.DefaultSessionTTL.Seconds()),
	})

	return c.Redirect(http.StatusFound, "/web/customers")
}

// Logout clears the session cookie and deletes the server-side session
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		h.sessions.Delete(cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	return c.Redirect(http.StatusFound, "/web/login")
}

// --------------------------
// Customers
// --------------------------

func (h *Handler) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/web/customers")
}

// ListCustomers shows every customer, or the matches for ?q= when it is not
// blank.
func (h *Handler) ListCustomers(c echo.Context) error {
	return h.showCustomers(c, http.StatusOK, CustomersPage{
		Query:  c.QueryParam("q"),
		Notice: c.QueryParam("notice"),
	})
}

func (h *Handler) showCustomers(c echo.Context, status int, page CustomersPage) error {
	customers, err := h.svc.FindCustomers(c.Request().Context(), page.Query)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list customers failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load customers")
	}
	page.Customers = customers
	return render(c, status, customersPage(page))
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	form := CustomerForm{
		ID:      strings.TrimSpace(c.FormValue("id")),
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Address: c.FormValue("address"),
		Phone:   c.FormValue("phone"),
		Notes:   c.FormValue("notes"),
	}

	req := &admin.CreateCustomerRequest{
		Name:  form.Name,
		Email: form.Email,
	}
	if form.ID != "" {
		id, err := strconv.ParseInt(form.ID, 10, 64)
		if err != nil {
			return h.showCustomers(c, http.StatusBadRequest, CustomersPage{Error: "El ID debe ser un número", Form: form})
		}
		req.ID = id
	}
	if form.Address != "" || form.Phone != "" || form.Notes != "" {
		phone := form.Phone
		req.Detail = &admin.DetailRequest{Address: form.Address, Phone: &phone, Notes: form.Notes}
	}

	created, err := h.svc.CreateCustomer(c.Request().Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, customer.ErrNameRequired), errors.Is(err, customer.ErrInvalidID):
		return h.showCustomers(c, http.StatusBadRequest, CustomersPage{Error: err.Error(), Form: form})
	case errors.Is(err, admin.ErrCustomerExists), database.IsUniqueViolation(err):
		return h.showCustomers(c, http.StatusConflict, CustomersPage{Error: "Ya existe un cliente con ese ID", Form: form})
	default:
		logging.FromContext(c.Request().Context()).Error("create customer failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create customer")
	}

	return c.Redirect(http.StatusSeeOther, "/web/customers?notice="+url.QueryEscape(created.Name+" creado"))
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	found, err := h.svc.DeleteCustomer(c.Request().Context(), id)
	switch {
	case err == nil:
	case database.IsForeignKeyViolation(err):
		return h.showCustomers(c, http.StatusConflict, CustomersPage{Error: "El cliente tiene pedidos y no se puede eliminar"})
	default:
		logging.FromContext(c.Request().Context()).Error("delete customer failed", "customer_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete customer")
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}

	return c.Redirect(http.StatusSeeOther, "/web/customers?notice="+url.QueryEscape("Cliente eliminado"))
}
