package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/kasirhub/pos-backend/internal/domain"
	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/tr"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
// Все методы записи работают внутри транзакции из контекста.
type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create вставляет шапку и позиции заказа. Цена каждой позиции — снимок,
// переданный вызывающим, каталог здесь не перечитывается.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	headerQuery := `
		INSERT INTO orders (customer_name, total_amount)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	created := &domain.Order{
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
	}
	err = tx.QueryRow(ctx, headerQuery, order.CustomerName, order.TotalAmount).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created.Items, err = insertItems(ctx, tx, created.ID, order.Items)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID читает шапку заказа и позиции, подтягивая текущие имена продуктов.
func (o *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	headerQuery := `
		SELECT id, customer_name, total_amount, created_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := o.pool.QueryRow(ctx, headerQuery, id).
		Scan(&order.ID, &order.CustomerName, &order.TotalAmount, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &e.OrderNotFoundError{OrderID: id}
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.product_name, ''), oi.quantity, oi.price
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := o.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

// LockByID блокирует строку заказа до конца транзакции,
// сериализуя конкурентные записи по одному id.
func (o *OrderRepo) LockByID(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &e.OrderNotFoundError{OrderID: id}
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// UpdateHeader перезаписывает имя клиента и сумму, created_at не трогает.
func (o *OrderRepo) UpdateHeader(ctx context.Context, id int64, customerName string, totalAmount int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE orders SET customer_name = $1, total_amount = $2 WHERE id = $3`,
		customerName, totalAmount, id,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return &e.OrderNotFoundError{OrderID: id}
	}

	return nil
}

// ReplaceItems удаляет старый набор позиций и вставляет новый.
func (o *OrderRepo) ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) ([]domain.OrderItem, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return insertItems(ctx, tx, orderID, items)
}

// Delete удаляет позиции и шапку заказа.
func (o *OrderRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return &e.OrderNotFoundError{OrderID: id}
	}

	return nil
}

// DeleteAll очищает обе таблицы заказов.
func (o *OrderRepo) DeleteAll(ctx context.Context) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items`); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM orders`); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ListSummaries возвращает заказы со строкой позиций вида "Tea x3, Coffee x1".
// Имена продуктов берутся из каталога на момент чтения.
func (o *OrderRepo) ListSummaries(ctx context.Context) ([]usecase.OrderSummary, error) {
	query := `
		SELECT o.id, o.customer_name, o.total_amount, o.created_at,
		       COALESCE(
		           string_agg(p.product_name || ' x' || oi.quantity, ', ' ORDER BY oi.id),
		           ''
		       ) AS items
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id DESC
	`

	rows, err := o.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.OrderSummary, 0)
	for rows.Next() {
		var summary usecase.OrderSummary
		if err := rows.Scan(&summary.ID, &summary.CustomerName, &summary.TotalAmount, &summary.CreatedAt, &summary.Items); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, summary)
	}

	return result, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []domain.OrderItem) ([]domain.OrderItem, error) {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	inserted := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		row := item
		row.OrderID = orderID

		if err := tx.QueryRow(ctx, query, orderID, item.ProductID, item.Quantity, item.Price).Scan(&row.ID); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		inserted = append(inserted, row)
	}

	return inserted, nil
}
