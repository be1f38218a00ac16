package handler

import (
	"net/http"

	"shopcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/carts のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  *int64 `json:"quantity"`
}

// /api/carts 配下を登録（auth は group 側で付ける）
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.addToCart)
	g.GET("", h.getCart)
	g.PUT("/:productId/increment", h.increment)
	g.PUT("/:productId/decrement", h.decrement)
	g.DELETE("/:productId", h.remove)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, found := getUserIDFromContext(c)
	if !found {
		return unauthorized(c)
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	line, err := h.uc.AddItemToCart(c.Request().Context(), userID, req.ProductID, qty)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, "Item added to cart", line)
}

func (h *CartHandler) increment(c echo.Context) error {
	userID, found := getUserIDFromContext(c)
	if !found {
		return unauthorized(c)
	}
	productID, valid := pathID(c, "productId")
	if !valid {
		return badRequest(c, "productId must be a positive integer")
	}

	line, err := h.uc.IncrementCartItem(c.Request().Context(), userID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Cart item quantity increased", line)
}

func (h *CartHandler) decrement(c echo.Context) error {
	userID, found := getUserIDFromContext(c)
	if !found {
		return unauthorized(c)
	}
	productID, valid := pathID(c, "productId")
	if !valid {
		return badRequest(c, "productId must be a positive integer")
	}

	res, err := h.uc.DecrementCartItem(c.Request().Context(), userID, productID)
	if err != nil {
		return writeError(c, err)
	}
	msg := "Cart item quantity decreased"
	if res.Removed {
		msg = "Cart item removed"
	}
	return ok(c, http.StatusOK, msg, res)
}

func (h *CartHandler) remove(c echo.Context) error {
	userID, found := getUserIDFromContext(c)
	if !found {
		return unauthorized(c)
	}
	productID, valid := pathID(c, "productId")
	if !valid {
		return badRequest(c, "productId must be a positive integer")
	}

	if err := h.uc.RemoveItemFromCart(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, found := getUserIDFromContext(c)
	if !found {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Cart retrieved", out)
}
