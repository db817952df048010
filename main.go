// Package main bookstore API.
//
// @title           Bookstore API
// @version         1.0
// @description     online bookstore (catalog, cart, orders, special requests).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"bookstore/app/echoServer"
	authctrl "bookstore/app/echoServer/controller/auth"
	bookctrl "bookstore/app/echoServer/controller/book"
	cartctrl "bookstore/app/echoServer/controller/cart"
	orderctrl "bookstore/app/echoServer/controller/order"
	requestctrl "bookstore/app/echoServer/controller/request"
	"bookstore/app/echoServer/validation"
	"bookstore/config"
	authrepo "bookstore/repository/auth"
	bookrepo "bookstore/repository/book"
	orderrepo "bookstore/repository/order"
	requestrepo "bookstore/repository/request"
	authsvc "bookstore/service/auth"
	booksvc "bookstore/service/book"
	cartsvc "bookstore/service/cart"
	ordersvc "bookstore/service/order"
	requestsvc "bookstore/service/request"
	"bookstore/util/database"
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	br := bookrepo.New(db)
	or := orderrepo.New(db)
	rr := requestrepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	bs := booksvc.New(br)
	cs := cartsvc.New(br)
	ods := ordersvc.New(db, or)
	rs := requestsvc.New(db, rr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, Books: bs, Log: log}
	orderC := &orderctrl.Controller{Svc: ods, V: v, Log: log}
	requestC := &requestctrl.Controller{Svc: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Book:    bookC,
		Cart:    cartC,
		Order:   orderC,
		Request: requestC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
