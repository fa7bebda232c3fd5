package e

import (
	"fmt"
	"strings"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrInvalidID            = fmt.Errorf("invalid id")
	ErrInvalidPrice         = fmt.Errorf("price must be a non-negative integer")
	ErrCustomerNameRequired = fmt.Errorf("customer_name is required")
	ErrEmptyItems           = fmt.Errorf("order must contain at least one item")
	ErrInvalidQuantity      = fmt.Errorf("quantity must be greater than 0")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")

	// 400: защита ссылочной целостности каталога
	ErrProductInUse = fmt.Errorf("product is referenced by existing orders")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")

	// 502 Bad Gateway: каталог недоступен при расчёте заказа
	ErrCatalogUnavailable = fmt.Errorf("catalog service unavailable")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// ProductNotFoundError — отсутствующий продукт с его идентификатором в тексте.
type ProductNotFoundError struct {
	ProductID int64
}

func (p *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", p.ProductID)
}

// Is сопоставляет ошибку с сентинелом ErrProductNotFound.
func (p *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// OrderNotFoundError — отсутствующий заказ с его идентификатором в тексте.
type OrderNotFoundError struct {
	OrderID int64
}

func (o *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", o.OrderID)
}

func (o *OrderNotFoundError) Is(target error) bool {
	return target == ErrOrderNotFound
}

// ValidationError перечисляет поля запроса, не прошедшие валидацию.
type ValidationError struct {
	Fields []string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(v.Fields, ", "))
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
