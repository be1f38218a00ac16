package usecase

import (
	"context"
	"errors"
	"strings"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"
	"shopcart/internal/validator"

	"go.uber.org/zap"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	logger      *zap.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, logger *zap.Logger) *ProductUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductUsecase{productRepo: productRepo, logger: logger.Named("product")}
}

// 作成・更新の入力（nil は指定なし）
type ProductInput = validator.ProductFields

// GET /products の出力
type ProductPage struct {
	TotalItems  int64           `json:"totalItems"`
	TotalPages  int64           `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	PerPage     int             `json:"perPage"`
	Items       []model.Product `json:"items"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, page, pageSize int) (ProductPage, error) {
	if err := validator.Page(page, pageSize); err != nil {
		return ProductPage{}, validationError(err.Error(), err)
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{Page: page, PageSize: pageSize})
	if err != nil {
		return ProductPage{}, u.persistence("list", err)
	}
	if items == nil {
		items = []model.Product{}
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return ProductPage{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PerPage:     pageSize,
		Items:       items,
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, validationError("invalid product id", nil)
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, u.persistence("get", err)
	}
	return p, nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := validator.ProductCreate(in); err != nil {
		return model.Product{}, validationError(err.Error(), err)
	}
	if err := u.ensureCategory(ctx, *in.CategoryID); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		SKU:        strings.TrimSpace(*in.SKU),
		Name:       strings.TrimSpace(*in.Name),
		Price:      *in.Price,
		StockLevel: *in.StockLevel,
		CategoryID: in.CategoryID,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, u.writeErr("create", err)
	}
	return created, nil
}

// UpdateProduct は部分更新。在庫が変わると調整履歴が残る。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, actorUserID, productID int64, in ProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, validationError("invalid product id", nil)
	}
	if err := validator.ProductUpdate(in); err != nil {
		return model.Product{}, validationError(err.Error(), err)
	}

	cur, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, u.persistence("update", err)
	}

	if in.SKU != nil {
		cur.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		cur.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		cur.Description = *in.Description
	}
	if in.Price != nil {
		cur.Price = *in.Price
	}
	if in.StockLevel != nil {
		cur.StockLevel = *in.StockLevel
	}
	if in.CategoryID != nil {
		if err := u.ensureCategory(ctx, *in.CategoryID); err != nil {
			return model.Product{}, err
		}
		cur.CategoryID = in.CategoryID
	}

	updated, err := u.productRepo.Update(ctx, actorUserID, cur)
	if err != nil {
		return model.Product{}, u.writeErr("update", err)
	}
	return updated, nil
}

// DeleteProduct は削除した商品を返す。カート明細は一緒に消える。
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, validationError("invalid product id", nil)
	}

	p, err := u.productRepo.Delete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, u.persistence("delete", err)
	}
	return p, nil
}

func (u *ProductUsecase) ensureCategory(ctx context.Context, categoryID int64) error {
	ok, err := u.productRepo.CategoryExists(ctx, categoryID)
	if err != nil {
		return u.persistence("category", err)
	}
	if !ok {
		return validationError("Category not found", nil)
	}
	return nil
}

func (u *ProductUsecase) writeErr(op string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, repo.ErrDuplicate):
		return conflictError("Product with this SKU already exists")
	case errors.Is(err, repo.ErrForeignKey):
		return validationError("Category not found", err)
	}
	return u.persistence(op, err)
}

func (u *ProductUsecase) persistence(op string, err error) error {
	u.logger.Error("product operation failed", zap.String("op", op), zap.Error(err))
	return with(ErrPersistence, err)
}
