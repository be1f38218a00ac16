package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// エラーコード（レスポンスの code にそのまま出す）
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeOutOfStock   = "OUT_OF_STOCK"
	CodePersistence  = "PERSISTENCE_FAILURE"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
)

// AppError は usecase が返す型付きエラー。
// Status は handler がそのまま HTTP ステータスに使う。
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is はコードが同じなら一致とみなす（メッセージ違いの NotFound 同士など）。
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || t.Message == e.Message)
}

func NewAppError(status int, code string, message string, cause error) *AppError {
	return &AppError{Code: code, Status: status, Message: message, Err: cause}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

var (
	//404 カート明細なし
	ErrCartItemNotFound = &AppError{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: "Cart item does not exist. Please add it to your cart first",
	}
	//404 商品なし
	ErrProductNotFound = &AppError{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: "Product not found",
	}
	//400 在庫不足
	ErrOutOfStock = &AppError{
		Code:    CodeOutOfStock,
		Status:  http.StatusBadRequest,
		Message: "Requested quantity exceeds available stock",
	}
	//500 中身はレスポンスに出さない
	ErrPersistence = &AppError{
		Code:    CodePersistence,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	}
	//400
	ErrValidation = &AppError{Code: CodeValidation, Status: http.StatusBadRequest}
	//401
	ErrUnauthorized = &AppError{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: "Unauthorized"}
	//409
	ErrConflict = &AppError{Code: CodeConflict, Status: http.StatusConflict}
)

// with は sentinel をコピーして原因を付ける。
func with(sentinel *AppError, cause error) *AppError {
	cp := *sentinel
	cp.Err = cause
	return &cp
}

func validationError(message string, cause error) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, cause)
}

func conflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, nil)
}
