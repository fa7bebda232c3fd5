package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/kasirhub/pos-backend/internal/domain"
	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/tr"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// List возвращает все продукты в порядке вставки.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, product_name, product_category, product_price, product_image
		FROM products
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Category, &product.Price, &product.Image); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	return result, rows.Err()
}

// GetByID возвращает продукт по идентификатору.
// Внутри транзакции читает через неё, иначе через пул.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, product_name, product_category, product_price, product_image
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := p.querier(ctx).QueryRow(ctx, query, id).
		Scan(&product.ID, &product.Name, &product.Category, &product.Price, &product.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &e.ProductNotFoundError{ProductID: id}
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &product, nil
}

// Create вставляет продукт и возвращает запись с присвоенным id.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (product_name, product_category, product_price, product_image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_name, product_category, product_price, product_image
	`

	var created domain.Product
	err := p.pool.QueryRow(ctx, query, product.Name, product.Category, product.Price, product.Image).
		Scan(&created.ID, &created.Name, &created.Category, &created.Price, &created.Image)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &created, nil
}

// Update обновляет только переданные поля и возвращает свежую запись.
func (p *ProductRepo) Update(ctx context.Context, id int64, patch *usecase.UpdateProductReq) (*domain.Product, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		addSet("product_name", *patch.Name)
	}
	if patch.Category != nil {
		addSet("product_category", *patch.Category)
	}
	if patch.Price != nil {
		addSet("product_price", *patch.Price)
	}
	if patch.Image != nil {
		addSet("product_image", *patch.Image)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d
		RETURNING id, product_name, product_category, product_price, product_image
	`, strings.Join(set, ", "), len(args))

	var updated domain.Product
	err := p.querier(ctx).QueryRow(ctx, query, args...).
		Scan(&updated.ID, &updated.Name, &updated.Category, &updated.Price, &updated.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &e.ProductNotFoundError{ProductID: id}
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &updated, nil
}

// CountReferences считает позиции заказов, ссылающиеся на продукт.
// Вызывается в транзакции удаления продукта.
func (p *ProductRepo) CountReferences(ctx context.Context, id int64) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var count int64
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE product_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

// Delete удаляет продукт в текущей транзакции.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return &e.ProductNotFoundError{ProductID: id}
	}

	return nil
}

// querier возвращает транзакцию из контекста, если она есть, иначе пул.
func (p *ProductRepo) querier(ctx context.Context) interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
} {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}

	return p.pool
}
