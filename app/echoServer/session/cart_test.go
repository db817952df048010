// app/echoServer/session/cart_test.go
package session

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newCtx(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCart_MissingCookie(t *testing.T) {
	c, _ := newCtx(t)
	require.Equal(t, model.Cart{}, Cart(c))
}

func TestCart_MalformedCookie(t *testing.T) {
	c, _ := newCtx(t, &http.Cookie{Name: "cart", Value: "!!not-base64!!"})
	require.Equal(t, model.Cart{}, Cart(c))
}

func TestCart_RoundTrip(t *testing.T) {
	want := model.Cart{7: 2, 9: 1}

	c, rec := newCtx(t)
	WriteCart(c, want)

	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	ck := res.Cookies()[0]
	require.Equal(t, "cart", ck.Name)

	c2, _ := newCtx(t, ck)
	require.Equal(t, want, Cart(c2))
}

func TestCart_DropsForgedQuantities(t *testing.T) {
	// hand-crafted cookie with zero, negative and bad-id entries
	raw := base64.RawURLEncoding.EncodeToString([]byte(`{"4":0,"7":-3,"-2":1,"9":2}`))
	c, _ := newCtx(t, &http.Cookie{Name: "cart", Value: raw})

	require.Equal(t, model.Cart{9: 2}, Cart(c))
}

func TestClearCart_ExpiresCookie(t *testing.T) {
	c, rec := newCtx(t)
	ClearCart(c)

	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	ck := res.Cookies()[0]
	require.Equal(t, "cart", ck.Name)
	require.Negative(t, ck.MaxAge)
	require.Empty(t, ck.Value)
}
