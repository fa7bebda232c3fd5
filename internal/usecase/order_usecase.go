package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kasirhub/pos-backend/internal/domain"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/logger"
)

// OrderUseCase реализует протокол записи заказа: валидация, получение
// актуальных цен из каталога, расчёт суммы и атомарная запись шапки с
// позициями одной локальной транзакцией. Обращение к каталогу намеренно
// выполняется строго до начала транзакции — единственная необходимая
// атомарность остаётся локальной для хранилища заказов, а изменение цены
// между чтением и коммитом принимается как допустимое устаревание.
type OrderUseCase struct {
	orderRepo OrderRepository
	catalog   CatalogProvider
	producer  EventProducer
	tx        Transactor
	logger    logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	catalog CatalogProvider,
	producer EventProducer,
	tx Transactor,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		catalog:   catalog,
		producer:  producer,
		tx:        tx,
		logger:    logger,
	}
}

// CreateOrder создаёт заказ. При любой ошибке до коммита хранилище
// остаётся в исходном состоянии: ни шапки, ни осиротевших позиций.
func (o *OrderUseCase) CreateOrder(ctx context.Context, req *WriteOrderReq) (*OrderRes, error) {
	const op = "OrderUseCase.CreateOrder"

	if err := validateWriteOrder(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	prices, err := o.resolvePrices(ctx, req.Items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	order := &domain.Order{
		CustomerName: req.CustomerName,
		TotalAmount:  computeTotal(req.Items, prices),
		Items:        buildItems(req.Items, prices),
	}

	var created *domain.Order
	err = o.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = o.orderRepo.Create(ctx, order)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.publishEvent(ctx, OrderCreated, created)

	return toOrderRes(created), nil
}

// GetOrder возвращает заказ с позициями.
func (o *OrderUseCase) GetOrder(ctx context.Context, id int64) (*OrderRes, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return toOrderRes(order), nil
}

// UpdateOrder полностью заменяет шапку и набор позиций заказа.
// Строка заказа блокируется на время транзакции, поэтому конкурентные
// обновления одного id не перемежаются; при ошибке внутри транзакции
// прежние шапка и позиции остаются нетронутыми.
func (o *OrderUseCase) UpdateOrder(ctx context.Context, id int64, req *WriteOrderReq) (*OrderRes, error) {
	const op = "OrderUseCase.UpdateOrder"

	if err := validateWriteOrder(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	prices, err := o.resolvePrices(ctx, req.Items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	total := computeTotal(req.Items, prices)

	var updated *domain.Order
	err = o.tx.Do(ctx, func(ctx context.Context) error {
		if err := o.orderRepo.LockByID(ctx, id); err != nil {
			return err
		}

		if err := o.orderRepo.UpdateHeader(ctx, id, req.CustomerName, total); err != nil {
			return err
		}

		items, err := o.orderRepo.ReplaceItems(ctx, id, buildItems(req.Items, prices))
		if err != nil {
			return err
		}

		updated = &domain.Order{
			ID:           id,
			CustomerName: req.CustomerName,
			TotalAmount:  total,
			Items:        items,
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// created_at не меняется при обновлении, перечитываем из хранилища.
	if fresh, err := o.orderRepo.GetByID(ctx, id); err == nil {
		updated.CreatedAt = fresh.CreatedAt
	}

	o.publishEvent(ctx, OrderUpdated, updated)

	return toOrderRes(updated), nil
}

// DeleteOrder удаляет заказ вместе с позициями одной транзакцией.
func (o *OrderUseCase) DeleteOrder(ctx context.Context, id int64) error {
	const op = "OrderUseCase.DeleteOrder"

	err := o.tx.Do(ctx, func(ctx context.Context) error {
		return o.orderRepo.Delete(ctx, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	o.publishEvent(ctx, OrderDeleted, &domain.Order{ID: id})

	return nil
}

// DeleteAllOrders удаляет все заказы и их позиции одной транзакцией.
func (o *OrderUseCase) DeleteAllOrders(ctx context.Context) error {
	const op = "OrderUseCase.DeleteAllOrders"

	err := o.tx.Do(ctx, func(ctx context.Context) error {
		return o.orderRepo.DeleteAll(ctx)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// ListOrders возвращает заказы со строкой позиций для отображения.
func (o *OrderUseCase) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	const op = "OrderUseCase.ListOrders"

	summaries, err := o.orderRepo.ListSummaries(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return summaries, nil
}

// resolvePrices запрашивает каталог по одному разу на каждый уникальный
// productID. Любой неразрешившийся продукт отменяет всю операцию.
func (o *OrderUseCase) resolvePrices(ctx context.Context, items []OrderItemReq) (map[int64]*ProductInfo, error) {
	prices := make(map[int64]*ProductInfo, len(items))
	for _, item := range items {
		if _, ok := prices[item.ProductID]; ok {
			continue
		}

		info, err := o.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		prices[item.ProductID] = info
	}

	return prices, nil
}

// publishEvent отправляет событие заказа после коммита, ошибки только логируются.
func (o *OrderUseCase) publishEvent(ctx context.Context, eventType string, order *domain.Order) {
	event := &OrderEvent{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		OccurredAt:   time.Now().UnixNano(),
	}

	if err := o.producer.PublishOrderEvent(ctx, event); err != nil {
		o.logger.Warnf("Failed to publish %s event for order %d: %v", eventType, order.ID, err)
	}
}

// validateWriteOrder проверяет форму запроса до каких-либо побочных эффектов.
func validateWriteOrder(req *WriteOrderReq) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return e.ErrCustomerNameRequired
	}

	if len(req.Items) == 0 {
		return e.ErrEmptyItems
	}

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return e.ErrInvalidQuantity
		}
	}

	return nil
}

// computeTotal суммирует позиции по снимкам цен; дубликаты одного продукта
// считаются отдельными строками, каждая со своим подытогом.
func computeTotal(items []OrderItemReq, prices map[int64]*ProductInfo) int64 {
	var total int64
	for _, item := range items {
		total += prices[item.ProductID].Price * int64(item.Quantity)
	}

	return total
}

func buildItems(items []OrderItemReq, prices map[int64]*ProductInfo) []domain.OrderItem {
	result := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		info := prices[item.ProductID]
		result = append(result, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: info.Name,
			Quantity:    item.Quantity,
			Price:       info.Price,
		})
	}

	return result
}

func toOrderRes(order *domain.Order) *OrderRes {
	items := make([]OrderItemRes, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemRes{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}

	return &OrderRes{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		TotalPrice:   order.TotalAmount,
		CreatedAt:    order.CreatedAt,
		Items:        items,
	}
}
