package usecase

import "context"

// CatalogProvider — источник актуальных цен для сервиса заказов.
// Реализация ходит в сервис каталога по HTTP с ограниченным таймаутом.
type CatalogProvider interface {
	GetProduct(ctx context.Context, id int64) (*ProductInfo, error)
}

// EventProducer публикует события заказов после коммита транзакции.
// Ошибка публикации не влияет на результат операции.
type EventProducer interface {
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error
}
