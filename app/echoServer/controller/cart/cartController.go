package cart

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookstore/app/echoServer/session"
	booksvc "bookstore/service/book"
	cartsvc "bookstore/service/cart"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc   cartsvc.Service
	Books booksvc.Service
	Log   *slog.Logger
}

// POST /v1/cart/items/:id
func (h *Controller) Add(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	// only catalogued books can be added
	if _, err := h.Books.Detail(c.Request().Context(), id); err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("cart add error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	cart := h.Svc.Add(session.Cart(c), id)
	session.WriteCart(c, cart)
	return c.JSON(http.StatusOK, echo.Map{"message": "added", "cart": cart})
}

// GET /v1/cart
func (h *Controller) View(c echo.Context) error {
	view, err := h.Svc.View(c.Request().Context(), session.Cart(c))
	if err != nil {
		h.Log.Error("cart view error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, view)
}

// DELETE /v1/cart
func (h *Controller) Clear(c echo.Context) error {
	session.WriteCart(c, h.Svc.Clear())
	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}
