package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kasirhub/pos-backend/internal/domain"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/logger"
)

// CatalogUseCase реализует бизнес-логику каталога продуктов.
type CatalogUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	imageRepo   ImageRepository
	tx          Transactor
	logger      logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imageRepo ImageRepository,
	tx Transactor,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		imageRepo:   imageRepo,
		tx:          tx,
		logger:      logger,
	}
}

// ListProducts возвращает все продукты каталога.
func (c *CatalogUseCase) ListProducts(ctx context.Context) ([]ProductRes, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ProductRes, 0, len(products))
	for _, product := range products {
		result = append(result, toProductRes(&product))
	}

	return result, nil
}

// GetProduct возвращает продукт по идентификатору, сначала заглядывая в кэш.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*ProductRes, error) {
	const op = "CatalogUseCase.GetProduct"

	cached, err := c.cacheRepo.GetProducts(ctx, []int64{id})
	if err == nil {
		if info, ok := cached[id]; ok {
			return &ProductRes{
				ID:       info.ID,
				Name:     info.Name,
				Category: info.Category,
				Price:    info.Price,
				Image:    info.Image,
			}, nil
		}
	}

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое наполнение кэша, промах не задерживает ответ.
	info := NewProductInfo(product.ID, product.Name, product.Category, product.Price, product.Image)
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProducts(bgCtx, []ProductInfo{info}); err != nil {
			c.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	res := toProductRes(product)
	return &res, nil
}

// CreateProduct валидирует поля и создаёт продукт.
func (c *CatalogUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductRes, error) {
	const op = "CatalogUseCase.CreateProduct"

	if err := validateCreateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := c.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Category, req.Price, req.Image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res := toProductRes(product)
	return &res, nil
}

// UpdateProduct частично обновляет продукт: nil-поля запроса не меняются.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*ProductRes, error) {
	const op = "CatalogUseCase.UpdateProduct"

	if err := validateUpdateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Empty() {
		product, err := c.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		res := toProductRes(product)
		return &res, nil
	}

	product, err := c.productRepo.Update(ctx, id, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		c.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	res := toProductRes(product)
	return &res, nil
}

// DeleteProduct удаляет продукт, если на него не ссылается ни одна позиция заказа.
// Проверка ссылок и удаление выполняются одной транзакцией, чтобы закрыть
// гонку с одновременной записью заказа на этот продукт.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteProduct"

	var imageKey string
	err := c.tx.Do(ctx, func(ctx context.Context) error {
		product, err := c.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		imageKey = product.Image

		refs, err := c.productRepo.CountReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return e.ErrProductInUse
		}

		return c.productRepo.Delete(ctx, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := c.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		c.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	if imageKey != "" && imageKey != domain.DefaultProductImage {
		if err := c.imageRepo.Delete(ctx, imageKey); err != nil {
			c.logger.Warnf("Failed to delete product image %s: %v", imageKey, e.Wrap(op, err))
		}
	}

	return nil
}

// AttachProductImage загружает изображение в объектное хранилище и записывает
// его ключ в product_image. Осиротевший объект подчищается при ошибке записи.
func (c *CatalogUseCase) AttachProductImage(ctx context.Context, req *AttachImageReq) (*ProductRes, error) {
	const op = "CatalogUseCase.AttachProductImage"

	previous, err := c.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	objectKey := buildImageKey(req.ProductID, req.Image.Name)
	if _, err := c.imageRepo.Upload(ctx, domain.NewImage(objectKey, req.Image.Data, req.Image.MimeType)); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := c.productRepo.Update(ctx, req.ProductID, &UpdateProductReq{Image: &objectKey})
	if err != nil {
		c.logger.Warnf("Cleaning up orphaned image after update failure. object_key: %s, error: %v", objectKey, err)
		if delErr := c.imageRepo.Delete(ctx, objectKey); delErr != nil {
			c.logger.Warnf("Failed to delete orphaned image %s: %v", objectKey, delErr)
		}
		return nil, e.Wrap(op, err)
	}

	if previous.Image != "" && previous.Image != domain.DefaultProductImage {
		if err := c.imageRepo.Delete(ctx, previous.Image); err != nil {
			c.logger.Warnf("Failed to delete replaced image %s: %v", previous.Image, err)
		}
	}

	if err := c.cacheRepo.DeleteProducts(ctx, []int64{req.ProductID}); err != nil {
		c.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	res := toProductRes(product)
	return &res, nil
}

// validateCreateProduct собирает список невалидных полей запроса.
func validateCreateProduct(req *CreateProductReq) error {
	var fields []string
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, "product_name")
	}
	if strings.TrimSpace(req.Category) == "" {
		fields = append(fields, "product_category")
	}
	if req.Price < 0 {
		fields = append(fields, "product_price")
	}

	if len(fields) > 0 {
		return e.NewValidationError(fields...)
	}

	return nil
}

func validateUpdateProduct(req *UpdateProductReq) error {
	var fields []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fields = append(fields, "product_name")
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		fields = append(fields, "product_category")
	}
	if req.Price != nil && *req.Price < 0 {
		fields = append(fields, "product_price")
	}

	if len(fields) > 0 {
		return e.NewValidationError(fields...)
	}

	return nil
}

// buildImageKey формирует уникальный ключ объекта для изображения продукта.
func buildImageKey(productID int64, filename string) string {
	base := strings.ReplaceAll(path.Base(filename), " ", "_")
	return fmt.Sprintf("products/%d/%s-%s", productID, uuid.NewString(), base)
}

func toProductRes(p *domain.Product) ProductRes {
	return ProductRes{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Image:    p.Image,
	}
}
