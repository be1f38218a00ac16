package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const CtxUserIDKey = "user_id" // int64

// TokenParser は access token を検証して user id を返す。
type TokenParser interface {
	Parse(raw string) (int64, error)
}

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return unauthorized(c, "Authorization token missing")
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return unauthorized(c, "Invalid authorization header")
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return unauthorized(c, "Authorization token missing")
			}

			userID, err := parser.Parse(rawToken)
			if err != nil || userID <= 0 {
				return unauthorized(c, "Invalid or expired token")
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			return next(c)
		}
	}
}

// UserID は AuthJWT が保存した user id を取り出す。
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Success: false, Message: msg, Code: "UNAUTHORIZED"})
}
