package usecase

import "context"

// CatalogUC — операции сервиса каталога.
type CatalogUC interface {
	ListProducts(ctx context.Context) ([]ProductRes, error)
	GetProduct(ctx context.Context, id int64) (*ProductRes, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductRes, error)
	UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*ProductRes, error)
	DeleteProduct(ctx context.Context, id int64) error
	AttachProductImage(ctx context.Context, req *AttachImageReq) (*ProductRes, error)
}

// OrderUC — операции сервиса заказов.
type OrderUC interface {
	CreateOrder(ctx context.Context, req *WriteOrderReq) (*OrderRes, error)
	GetOrder(ctx context.Context, id int64) (*OrderRes, error)
	UpdateOrder(ctx context.Context, id int64, req *WriteOrderReq) (*OrderRes, error)
	DeleteOrder(ctx context.Context, id int64) error
	DeleteAllOrders(ctx context.Context) error
	ListOrders(ctx context.Context) ([]OrderSummary, error)
}

// Transactor открывает транзакцию хранилища и выполняет fn внутри неё.
// Ошибка fn откатывает транзакцию целиком.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
