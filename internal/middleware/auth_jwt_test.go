package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type TokenParserMock struct{ mock.Mock }

func (m *TokenParserMock) Parse(raw string) (int64, error) {
	args := m.Called(raw)
	return args.Get(0).(int64), args.Error(1)
}

func run(t *testing.T, parser TokenParser, authz string) (*httptest.ResponseRecorder, int64) {
	t.Helper()
	e := echo.New()
	var seen int64
	h := AuthJWT(parser)(func(c echo.Context) error {
		seen, _ = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec, seen
}

func TestAuthJWT_OK(t *testing.T) {
	p := new(TokenParserMock)
	p.On("Parse", "good").Return(int64(7), nil)

	rec, uid := run(t, p, "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), uid)
	p.AssertExpectations(t)
}

func TestAuthJWT_Rejects(t *testing.T) {
	p := new(TokenParserMock)
	p.On("Parse", "bad").Return(int64(0), errors.New("invalid"))

	cases := map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"empty":      "Bearer ",
		"invalid":    "Bearer bad",
	}
	for name, authz := range cases {
		t.Run(name, func(t *testing.T) {
			rec, uid := run(t, p, authz)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
			assert.Zero(t, uid)
		})
	}
}
