// app/echoServer/session/cart.go
package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"bookstore/model"

	"github.com/labstack/echo/v4"
)

// The cart is the only session state the server keeps, and it lives entirely
// in a client-visible cookie: base64 over the JSON id→quantity map. Handlers
// read a snapshot, call the cart service, and write the new state back.

const cartCookie = "cart"

// Cart decodes the request's cart cookie. A missing or malformed cookie is
// an empty cart.
func Cart(c echo.Context) model.Cart {
	ck, err := c.Cookie(cartCookie)
	if err != nil || ck.Value == "" {
		return model.Cart{}
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return model.Cart{}
	}
	var cart model.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return model.Cart{}
	}
	// The cookie is client-writable: drop forged entries instead of letting
	// them reach the order transaction.
	for id, qty := range cart {
		if id <= 0 || qty <= 0 {
			delete(cart, id)
		}
	}
	return cart
}

// WriteCart replaces the cart cookie with the given state.
func WriteCart(c echo.Context, cart model.Cart) {
	raw, err := json.Marshal(cart)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     cartCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: false, // the storefront reads the cart client-side
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCart expires the cart cookie.
func ClearCart(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     cartCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
}
