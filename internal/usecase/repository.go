package usecase

import (
	"context"

	"github.com/kasirhub/pos-backend/internal/domain"
)

// ProductRepository — хранилище продуктов.
// Delete и CountReferences требуют транзакцию в контексте (pkg/tr):
// проверка ссылок и удаление обязаны видеть одно состояние order_items.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch *UpdateProductReq) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	CountReferences(ctx context.Context, id int64) (int64, error)
}

// OrderRepository — хранилище заказов.
// Методы записи требуют транзакцию в контексте.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	LockByID(ctx context.Context, id int64) error
	UpdateHeader(ctx context.Context, id int64, customerName string, totalAmount int64) error
	ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) ([]domain.OrderItem, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	ListSummaries(ctx context.Context) ([]OrderSummary, error)
}

// CacheRepository — кэш карточек продуктов на стороне каталога.
type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

// ImageRepository — объектное хранилище изображений продуктов.
type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
