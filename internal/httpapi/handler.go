// Package httpapi exposes the café floor as a small JSON API.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/floor"
	"github.com/pixil98/go-cafe/internal/spawn"
)

// Floor is what the API needs from the running floor.
type Floor interface {
	Snapshot() floor.Snapshot
	Spawn(ctx context.Context, patron string) (floor.CustomerView, error)
	Serve(ctx context.Context, customerID, item string) error
	Dismiss(ctx context.Context, customerID string) error
}

type Handler struct {
	floor Floor
}

func NewHandler(f Floor) *Handler {
	return &Handler{floor: f}
}

// Register mounts every route on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1")
	v1.GET("/floor", h.GetFloor)
	v1.GET("/seats", h.GetSeats)
	v1.GET("/queue", h.GetQueue)
	v1.GET("/customers", h.GetCustomers)
	v1.GET("/customers/:id", h.GetCustomer)
	v1.POST("/customers", h.PostCustomer)
	v1.POST("/customers/:id/serve", h.PostServe)
	v1.DELETE("/customers/:id", h.DeleteCustomer)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (h *Handler) GetFloor(c echo.Context) error {
	return c.JSON(http.StatusOK, h.floor.Snapshot())
}

func (h *Handler) GetSeats(c echo.Context) error {
	snap := h.floor.Snapshot()
	return c.JSON(http.StatusOK, echo.Map{"items": snap.Seats, "free": snap.FreeSeats()})
}

func (h *Handler) GetQueue(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.floor.Snapshot().Queue})
}

func (h *Handler) GetCustomers(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.floor.Snapshot().Customers})
}

func (h *Handler) GetCustomer(c echo.Context) error {
	cv, ok := h.floor.Snapshot().Customer(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}
	return c.JSON(http.StatusOK, cv)
}

type spawnRequest struct {
	Patron string `json:"patron"`
}

func (h *Handler) PostCustomer(c echo.Context) error {
	var req spawnRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
	}

	cv, err := h.floor.Spawn(c.Request().Context(), req.Patron)
	switch {
	case errors.Is(err, spawn.ErrFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "café is at capacity"})
	case errors.Is(err, spawn.ErrUnknownPatron):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown patron"})
	case err != nil:
		return h.internalError(c, "spawning customer", err)
	}

	return c.JSON(http.StatusCreated, cv)
}

type serveRequest struct {
	Item string `json:"item"`
}

func (h *Handler) PostServe(c echo.Context) error {
	var req serveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Item == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item is required"})
	}

	err := h.floor.Serve(c.Request().Context(), c.Param("id"), req.Item)
	switch {
	case errors.Is(err, floor.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	case errors.Is(err, customer.ErrNotSeated),
		errors.Is(err, customer.ErrNoOrder),
		errors.Is(err, customer.ErrAlreadyServed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case err != nil:
		return h.internalError(c, "serving customer", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	err := h.floor.Dismiss(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, floor.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	case err != nil:
		return h.internalError(c, "dismissing customer", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) internalError(c echo.Context, msg string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "floor is not responding"})
	}
	slog.ErrorContext(c.Request().Context(), msg, "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
