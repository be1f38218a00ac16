package handler

import (
	"errors"
	"net/http"
	"strconv"

	"shopcart/internal/middleware"
	"shopcart/internal/usecase"
	"shopcart/internal/validator"

	"github.com/labstack/echo/v4"
)

// 成功時の共通レスポンス
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
}

// 失敗時の共通レスポンス
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Errors  []validator.FieldError `json:"errors,omitempty"`
}

func ok(c echo.Context, status int, message string, body interface{}) error {
	return c.JSON(status, SuccessResponse{Success: true, Message: message, Body: body})
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{Success: false, Message: message, Code: code})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	ae, found := usecase.AsAppError(err)
	if !found {
		ae = usecase.ErrPersistence
	}

	// 500 は中身を出さない
	if ae.Status >= http.StatusInternalServerError {
		return fail(c, http.StatusInternalServerError, ae.Code, usecase.ErrPersistence.Message)
	}

	res := ErrorResponse{Success: false, Message: ae.Message, Code: ae.Code}
	var fes validator.Errors
	if errors.As(err, &fes) {
		res.Errors = fes
	}
	return c.JSON(ae.Status, res)
}

func badRequest(c echo.Context, message string) error {
	return fail(c, http.StatusBadRequest, usecase.CodeValidation, message)
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	return middleware.UserID(c)
}

func unauthorized(c echo.Context) error {
	return fail(c, http.StatusUnauthorized, usecase.CodeUnauthorized, usecase.ErrUnauthorized.Message)
}
