package echoServer

import (
	"bookstore/app/echoServer/controller/auth"
	"bookstore/app/echoServer/controller/book"
	"bookstore/app/echoServer/controller/cart"
	"bookstore/app/echoServer/controller/order"
	"bookstore/app/echoServer/controller/request"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth    *auth.Controller
	Book    *book.Controller
	Cart    *cart.Controller
	Order   *order.Controller
	Request *request.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public: browse, cart and guest checkout need no account
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)
	pub.GET("/users/logout", c.Auth.Logout)

	pub.GET("/books", c.Book.List)
	pub.GET("/books/:id", c.Book.Detail)

	pub.POST("/cart/items/:id", c.Cart.Add)
	pub.GET("/cart", c.Cart.View)
	pub.DELETE("/cart", c.Cart.Clear)

	pub.POST("/orders", c.Order.Place)

	// Auth: requests and admin surface carry a bearer token
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))

	authed.POST("/requests", c.Request.Create)

	// Admin endpoints; role is checked in the controllers
	authed.POST("/books", c.Book.Create)
	authed.PUT("/books/:id", c.Book.Update)
	authed.DELETE("/books/:id", c.Book.Delete)

	authed.GET("/admin/orders", c.Order.AdminList)

	authed.GET("/requests", c.Request.List)
	authed.POST("/requests/:id/approve", c.Request.Approve)
	authed.POST("/requests/:id/decline", c.Request.Decline)
}
