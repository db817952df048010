// model/cartModel.go
package model

// Cart maps book id to quantity. It lives in a client-visible cookie and is
// never persisted server-side; handlers decode it per request and write the
// updated state back.
type Cart map[int64]int64

// Add returns a copy of the cart with the quantity for bookID incremented.
// The receiver is left untouched.
func (c Cart) Add(bookID int64) Cart {
	out := make(Cart, len(c)+1)
	for id, qty := range c {
		out[id] = qty
	}
	out[bookID]++
	return out
}
