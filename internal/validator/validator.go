package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError は1項目分の検証エラー
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors は検証エラーのまとまり。errors.Is(err, ErrInvalidInput) が真になる。
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, ", ")
}

func (e Errors) Is(target error) bool { return target == ErrInvalidInput }

type collector struct {
	errs Errors
}

func (c *collector) add(field, msg string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: msg})
}

func (c *collector) minLen(field, value string, n int) {
	if len([]rune(strings.TrimSpace(value))) < n {
		c.add(field, field+" must be at least "+strconv.Itoa(n)+" characters")
	}
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// 会員登録
func Register(firstName, lastName, email, password string) error {
	var c collector
	c.minLen("firstName", firstName, 3)
	c.minLen("lastName", lastName, 3)
	if !IsEmailLike(email) {
		c.add("email", "email must be a valid email")
	}
	if len(password) < 6 {
		c.add("password", "password must be at least 6 characters")
	}
	return c.err()
}

// ログイン
func Login(email, password string) error {
	var c collector
	if !IsEmailLike(email) {
		c.add("email", "email must be a valid email")
	}
	if password == "" {
		c.add("password", "password is required")
	}
	return c.err()
}

// ProductFields は作成・更新で共通の項目。nil は「指定なし」。
type ProductFields struct {
	SKU         *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	StockLevel  *int64
	CategoryID  *int64
}

func (f ProductFields) empty() bool {
	return f.SKU == nil && f.Name == nil && f.Description == nil &&
		f.Price == nil && f.StockLevel == nil && f.CategoryID == nil
}

// 商品作成（description 以外すべて必須）
func ProductCreate(f ProductFields) error {
	var c collector
	if f.SKU == nil {
		c.add("sku", "sku is required")
	}
	if f.Name == nil {
		c.add("name", "name is required")
	}
	if f.Price == nil {
		c.add("price", "price is required")
	}
	if f.StockLevel == nil {
		c.add("stockLevel", "stockLevel is required")
	}
	if f.CategoryID == nil {
		c.add("categoryId", "categoryId is required")
	}
	checkProductFields(&c, f)
	return c.err()
}

// 商品更新（1項目以上）
func ProductUpdate(f ProductFields) error {
	var c collector
	if f.empty() {
		c.add("body", "at least one field must be provided")
		return c.err()
	}
	checkProductFields(&c, f)
	return c.err()
}

func checkProductFields(c *collector, f ProductFields) {
	if f.SKU != nil {
		c.minLen("sku", *f.SKU, 3)
	}
	if f.Name != nil {
		c.minLen("name", *f.Name, 3)
	}
	if f.Price != nil && !IsPrice(*f.Price) {
		c.add("price", "price must be a positive number with at most 2 decimal places")
	}
	if f.StockLevel != nil && *f.StockLevel < 0 {
		c.add("stockLevel", "stockLevel must be a non-negative integer")
	}
	if f.CategoryID != nil && *f.CategoryID <= 0 {
		c.add("categoryId", "categoryId must be a positive integer")
	}
}

// カート操作の productId / quantity
func CartItem(productID int64, quantity int64) error {
	var c collector
	if productID <= 0 {
		c.add("productId", "productId must be a positive integer")
	}
	if quantity <= 0 {
		c.add("quantity", "quantity must be a positive integer")
	}
	return c.err()
}

// ページング
func Page(page, pageSize int) error {
	var c collector
	if page < 1 {
		c.add("page", "page must be >= 1")
	}
	if pageSize < 1 || pageSize > 100 {
		c.add("pageSize", "pageSize must be between 1 and 100")
	}
	return c.err()
}

// 簡易メール形式をチェック
func IsEmailLike(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// 0より大きく小数2桁まで
func IsPrice(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2))
}
