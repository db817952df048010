package cart

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"bookstore/model"
)

// Line is one cart entry joined with live catalog data.
type Line struct {
	BookID   int64   `json:"book_id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type View struct {
	Lines []Line  `json:"items"`
	Total float64 `json:"total"`
}

type Repo interface {
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	// Add returns the cart with the book's quantity incremented by one.
	Add(cart model.Cart, bookID int64) model.Cart

	// View joins the cart against current book rows. Prices and titles are
	// always read fresh, never snapshotted at add time. Books no longer in
	// the catalog are skipped.
	View(ctx context.Context, cart model.Cart) (*View, error)

	// Clear returns an empty cart.
	Clear() model.Cart
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Add(cart model.Cart, bookID int64) model.Cart {
	if cart == nil {
		cart = model.Cart{}
	}
	return cart.Add(bookID)
}

func (s *service) View(ctx context.Context, cart model.Cart) (*View, error) {
	out := &View{Lines: []Line{}}

	ids := make([]int64, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		b, err := s.r.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		qty := cart[id]
		sub := b.Price * float64(qty)
		out.Lines = append(out.Lines, Line{
			BookID:   b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Price:    b.Price,
			Quantity: qty,
			Subtotal: sub,
		})
		out.Total += sub
	}
	return out, nil
}

func (s *service) Clear() model.Cart { return model.Cart{} }
