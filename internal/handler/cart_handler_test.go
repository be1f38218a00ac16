package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopcart/internal/domain/model"
	"shopcart/internal/infra/memstore"
	"shopcart/internal/middleware"
	"shopcart/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// テスト用：user_id をそのまま入れる
func fakeAuth(userID int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID > 0 {
				c.Set(middleware.CtxUserIDKey, userID)
			}
			return next(c)
		}
	}
}

func newCartServer(t *testing.T, userID int64) *echo.Echo {
	t.Helper()
	s, err := memstore.New()
	require.NoError(t, err)
	require.NoError(t, s.PutProduct(model.Product{
		ID: 1, SKU: "SKU-1", Name: "Mouse", Price: decimal.RequireFromString("10.00"), StockLevel: 2,
	}))

	h := NewCartHandler(usecase.NewCartUsecase(s, s, zap.NewNop()))
	e := echo.New()
	h.RegisterRoutes(e.Group("/api/carts", fakeAuth(userID)))
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Body    json.RawMessage `json:"body"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCartHandler_Flow(t *testing.T) {
	e := newCartServer(t, 5)

	rec := do(e, http.MethodPost, "/api/carts", `{"productId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode(t, rec)
	assert.True(t, env.Success)
	var line model.CartLine
	require.NoError(t, json.Unmarshal(env.Body, &line))
	assert.Equal(t, int64(1), line.Quantity)

	rec = do(e, http.MethodPut, "/api/carts/1/increment", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPut, "/api/carts/1/increment", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecase.CodeOutOfStock, decode(t, rec).Code)

	rec = do(e, http.MethodGet, "/api/carts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cart struct {
		Items    []model.CartLineView `json:"items"`
		Subtotal decimal.Decimal      `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Body, &cart))
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("20")))

	rec = do(e, http.MethodPut, "/api/carts/1/decrement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dec usecase.DecrementResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Body, &dec))
	assert.False(t, dec.Removed)

	rec = do(e, http.MethodDelete, "/api/carts/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/api/carts/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cart item does not exist. Please add it to your cart first", decode(t, rec).Message)
}

func TestCartHandler_BadInput(t *testing.T) {
	e := newCartServer(t, 5)

	rec := do(e, http.MethodPost, "/api/carts", `{"productId":1,"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecase.CodeValidation, decode(t, rec).Code)

	rec = do(e, http.MethodPost, "/api/carts", `{"productId":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPut, "/api/carts/abc/increment", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/carts", `{"productId":99,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode(t, rec).Message)
}

func TestCartHandler_RequiresUser(t *testing.T) {
	e := newCartServer(t, 0)

	rec := do(e, http.MethodGet, "/api/carts", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
