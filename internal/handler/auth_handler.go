package handler

import (
	"errors"
	"net/http"

	"shopcart/internal/usecase"
	auth "shopcart/internal/usecase/auth_usecase"
	"shopcart/internal/validator"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	logger     *zap.Logger
}

// DIコンストラクタ
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{registerUC: registerUC, loginUC: loginUC, logger: logger.Named("auth")}
}

// /api/auth/register のリクエストボディ。
type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// /api/auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return ok(c, http.StatusCreated, "User registered successfully", out)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.writeAuthError(c, err)
	}
	return ok(c, http.StatusOK, "Login successful", out)
}

func (h *AuthHandler) writeAuthError(c echo.Context, err error) error {
	var fes validator.Errors
	switch {
	case errors.As(err, &fes):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: fes.Error(),
			Code:    usecase.CodeValidation,
			Errors:  fes,
		})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return fail(c, http.StatusConflict, usecase.CodeConflict, "Email is already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, usecase.CodeUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrUserInactive):
		return fail(c, http.StatusForbidden, usecase.CodeForbidden, "User is inactive")
	}

	h.logger.Error("auth request failed", zap.String("path", c.Path()), zap.Error(err))
	return writeError(c, err)
}
