package handler

import (
	"net/http"
	"strconv"

	"shopcart/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /api/products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 作成・更新共通のボディ（更新は部分指定）
type productRequest struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	StockLevel  *int64           `json:"stockLevel"`
	CategoryID  *int64           `json:"categoryId"`
}

func (r productRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		StockLevel:  r.StockLevel,
		CategoryID:  r.CategoryID,
	}
}

// 参照は公開、変更系は auth を通す
func (h *ProductHandler) RegisterRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("", h.create, auth)
	g.PUT("/:id", h.update, auth)
	g.DELETE("/:id", h.destroy, auth)
}

func (h *ProductHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid page")
		}
		page = p
	}

	// pageSize（default 10）
	pageSize := 10
	if v := c.QueryParam("pageSize"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid pageSize")
		}
		pageSize = l
	}

	out, err := h.uc.ListProducts(c.Request().Context(), page, pageSize)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Products retrieved", out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, valid := pathID(c, "id")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Product retrieved", p)
}

func (h *ProductHandler) create(c echo.Context) error {
	if _, found := getUserIDFromContext(c); !found {
		return unauthorized(c)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, "Product created", p)
}

func (h *ProductHandler) update(c echo.Context) error {
	userID, found := getUserIDFromContext(c)
	if !found {
		return unauthorized(c)
	}
	id, valid := pathID(c, "id")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), userID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Product updated", p)
}

func (h *ProductHandler) destroy(c echo.Context) error {
	if _, found := getUserIDFromContext(c); !found {
		return unauthorized(c)
	}
	id, valid := pathID(c, "id")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	p, err := h.uc.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "Product deleted", p)
}
