package admin

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"lampreasvioleta.com/storefront/internal/backup"
	"lampreasvioleta.com/storefront/internal/customer"
	"lampreasvioleta.com/storefront/internal/customerdetail"
	"lampreasvioleta.com/storefront/internal/database"
	"lampreasvioleta.com/storefront/internal/logging"
	"lampreasvioleta.com/storefront/internal/order"
	"lampreasvioleta.com/storefront/internal/orderline"
	"lampreasvioleta.com/storefront/internal/product"
)

type Handler struct {
	svc     *Service
	backups *backup.Service
}

func NewHandler(svc *Service, backups *backup.Service) *Handler {
	return &Handler{svc: svc, backups: backups}
}

// badRequest lists the errors caused by the request content.
var badRequest = []error{
	customer.ErrNameRequired,
	customer.ErrInvalidID,
	customerdetail.ErrCustomerIDRequired,
	product.ErrNegativePrice,
	order.ErrInvalidID,
	order.ErrCustomerRequired,
	order.ErrNoLines,
	orderline.ErrInvalidQuantity,
	orderline.ErrNegativeUnitPrice,
	ErrInvalidDate,
	ErrUnknownProduct,
}

// fail maps err to a status and JSON body. Store errors other than integrity
// violations are logged and reported without their cause.
func (h *Handler) fail(c echo.Context, err error) error {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
	}

	switch {
	case errors.Is(err, ErrCustomerExists), database.IsUniqueViolation(err):
		return c.JSON(http.StatusConflict, errorResponse{Error: "a record with this id already exists"})
	case database.IsForeignKeyViolation(err):
		return c.JSON(http.StatusConflict, errorResponse{Error: "the request conflicts with related records"})
	}

	logging.FromContext(c.Request().Context()).Error("admin request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func notFound(c echo.Context, what string, id int64) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("%s not found (%d)", what, id)})
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// Customers

func (h *Handler) GetCustomers(c echo.Context) error {
	out, err := h.svc.FindCustomers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCustomer(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.svc.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if out == nil {
		return notFound(c, "customer", id)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	out, err := h.svc.CreateCustomer(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	logging.FromContext(c.Request().Context()).Info("customer created", "customer_id", out.ID)
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	found, err := h.svc.UpdateCustomer(c.Request().Context(), id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	if !found {
		return notFound(c, "customer", id)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	found, err := h.svc.DeleteCustomer(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if !found {
		return notFound(c, "customer", id)
	}
	logging.FromContext(c.Request().Context()).Info("customer deleted", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}

// ExportCustomers buffers the CSV so a store failure still reaches the client
// as an error status.
func (h *Handler) ExportCustomers(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.svc.ExportCustomersCSV(c.Request().Context(), &buf); err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=customers.csv")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Customer detail

func (h *Handler) GetCustomerDetail(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.svc.GetCustomerDetail(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if out == nil {
		return notFound(c, "customer detail", id)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateCustomerDetail(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req DetailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	found, err := h.svc.UpdateCustomerDetail(c.Request().Context(), id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	if !found {
		return notFound(c, "customer detail", id)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteCustomerDetail(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	found, err := h.svc.DeleteCustomerDetail(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if !found {
		return notFound(c, "customer detail", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// Products

func (h *Handler) GetProducts(c echo.Context) error {
	out, err := h.svc.GetProducts(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if out == nil {
		return notFound(c, "product", id)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	out, err := h.svc.CreateProduct(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// Orders

func (h *Handler) GetOrders(c echo.Context) error {
	out, err := h.svc.GetOrders(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if out == nil {
		return notFound(c, "order", id)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	out, err := h.svc.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	logging.FromContext(c.Request().Context()).Info("order created", "order_id", out.ID, "lines", len(out.Lines))
	return c.JSON(http.StatusCreated, out)
}

// Backup

func (h *Handler) BackupDatabase(c echo.Context) error {
	res, err := h.backups.Create(c.Request().Context())
	if errors.Is(err, backup.ErrSQLiteOnly) {
		return c.JSON(http.StatusNotImplemented, errorResponse{Error: err.Error()})
	}
	if err != nil {
		return h.fail(c, err)
	}

	logging.FromContext(c.Request().Context()).Info("database backup created",
		"file", res.Filename,
		"size", res.Size,
		"rows", res.Rows,
	)
	return c.JSON(http.StatusCreated, res)
}
