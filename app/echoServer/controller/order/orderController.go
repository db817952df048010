package order

import (
	"log/slog"
	"net/http"

	"bookstore/app/echoServer/jwtx"
	"bookstore/app/echoServer/session"
	"bookstore/model"
	ordersvc "bookstore/service/order"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/orders
func (h *Controller) Place(c echo.Context) error {
	var req PlaceOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	cart := session.Cart(c)
	out, err := h.Svc.Place(c.Request().Context(), req.Name, req.Email, cart)
	if err != nil {
		// the cart cookie stays intact on any failure
		switch ordersvc.Code(err) {
		case ordersvc.ErrEmptyCart:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cart is empty"})
		case ordersvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cart"})
		case ordersvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case ordersvc.ErrInsufficientStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "not enough stock"})
		default:
			h.Log.Error("place order error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "order failed"})
		}
	}

	session.ClearCart(c)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "order placed",
		"order_id": out.OrderID,
	})
}

// GET /v1/admin/orders  (admin)
func (h *Controller) AdminList(c echo.Context) error {
	if role, _ := jwtx.RoleFromContext(c); role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("order list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
