package usecase_test

import (
	"context"
	"errors"
	"testing"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"
	"shopcart/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, actorUserID int64, p model.Product) (model.Product, error) {
	args := m.Called(ctx, actorUserID, p)
	updated, _ := args.Get(0).(model.Product)
	return updated, args.Error(1)
}

func (m *ProdProductRepoMock) Delete(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) CategoryExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func validInput() usecase.ProductInput {
	return usecase.ProductInput{
		SKU:        ptr(" SKU-1 "),
		Name:       ptr("Coffee"),
		Price:      ptr(decimal.RequireFromString("4.50")),
		StockLevel: ptr(int64(10)),
		CategoryID: ptr(int64(3)),
	}
}

// =====================
// List / Get
// =====================

func TestProductUsecase_ListProducts_InvalidPage(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock), zap.NewNop())

	_, err := uc.ListProducts(context.Background(), 0, 10)
	assert.ErrorIs(t, err, usecase.ErrValidation)

	_, err = uc.ListProducts(context.Background(), 1, 101)
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestProductUsecase_ListProducts_Pagination(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())

	items := []model.Product{{ID: 1}, {ID: 2}}
	pRepo.On("List", mock.Anything, repo.ProductListQuery{Page: 2, PageSize: 10}).Return(items, int64(21), nil)

	out, err := uc.ListProducts(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(21), out.TotalItems)
	assert.Equal(t, int64(3), out.TotalPages)
	assert.Equal(t, 2, out.CurrentPage)
	assert.Equal(t, 10, out.PerPage)
	assert.Len(t, out.Items, 2)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_ListProducts_Empty(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())
	pRepo.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), nil)

	out, err := uc.ListProducts(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Equal(t, int64(0), out.TotalPages)
}

func TestProductUsecase_GetProduct(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, SKU: "SKU-1"}, nil)
	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)
	pRepo.On("FindByID", mock.Anything, int64(500)).Return(model.Product{}, errors.New("db down"))

	p, err := uc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", p.SKU)

	_, err = uc.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)

	_, err = uc.GetProduct(context.Background(), 500)
	assert.ErrorIs(t, err, usecase.ErrPersistence)

	_, err = uc.GetProduct(context.Background(), 0)
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

// =====================
// Create
// =====================

func TestProductUsecase_CreateProduct_Success(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())

	pRepo.On("CategoryExists", mock.Anything, int64(3)).Return(true, nil)
	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.SKU == "SKU-1" && p.Name == "Coffee" && p.StockLevel == 10 && p.Price.Equal(decimal.RequireFromString("4.5"))
	})).Return(model.Product{ID: 123, SKU: "SKU-1"}, nil)

	p, err := uc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(123), p.ID)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_CreateProduct_Validation(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock), zap.NewNop())

	in := validInput()
	in.Price = ptr(decimal.RequireFromString("1.999"))
	_, err := uc.CreateProduct(context.Background(), in)
	assert.ErrorIs(t, err, usecase.ErrValidation)

	in = validInput()
	in.CategoryID = nil
	_, err = uc.CreateProduct(context.Background(), in)
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestProductUsecase_CreateProduct_UnknownCategory(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())
	pRepo.On("CategoryExists", mock.Anything, int64(3)).Return(false, nil)

	_, err := uc.CreateProduct(context.Background(), validInput())
	ae, ok := usecase.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeValidation, ae.Code)
	assert.Equal(t, "Category not found", ae.Message)
	pRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_CreateProduct_DuplicateSKU(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())
	pRepo.On("CategoryExists", mock.Anything, int64(3)).Return(true, nil)
	pRepo.On("Create", mock.Anything, mock.Anything).Return(nil, repo.ErrDuplicate)

	_, err := uc.CreateProduct(context.Background(), validInput())
	ae, ok := usecase.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, ae.Status)
	assert.Equal(t, usecase.CodeConflict, ae.Code)
}

// =====================
// Update / Delete
// =====================

func TestProductUsecase_UpdateProduct_PartialMerge(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())

	cur := model.Product{ID: 5, SKU: "SKU-5", Name: "Tea", Price: decimal.RequireFromString("3.00"), StockLevel: 4}
	pRepo.On("FindByID", mock.Anything, int64(5)).Return(cur, nil)
	pRepo.On("Update", mock.Anything, int64(9), mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 5 && p.SKU == "SKU-5" && p.Name == "Tea" && p.StockLevel == 20
	})).Return(model.Product{ID: 5, StockLevel: 20}, nil)

	out, err := uc.UpdateProduct(context.Background(), 9, 5, usecase.ProductInput{StockLevel: ptr(int64(20))})
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.StockLevel)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_UpdateProduct_EmptyBody(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock), zap.NewNop())

	_, err := uc.UpdateProduct(context.Background(), 9, 5, usecase.ProductInput{})
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestProductUsecase_UpdateProduct_NotFound(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())
	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.UpdateProduct(context.Background(), 9, 5, usecase.ProductInput{Name: ptr("Green tea")})
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestProductUsecase_DeleteProduct(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, zap.NewNop())
	pRepo.On("Delete", mock.Anything, int64(5)).Return(model.Product{ID: 5, SKU: "SKU-5"}, nil)
	pRepo.On("Delete", mock.Anything, int64(6)).Return(model.Product{}, repo.ErrNotFound)

	p, err := uc.DeleteProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "SKU-5", p.SKU)

	_, err = uc.DeleteProduct(context.Background(), 6)
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}
