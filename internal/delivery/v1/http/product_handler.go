package http

import (
	"encoding/json"
	"net/http"

	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/logger"
)

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// productJSON — представление продукта в API.
type productJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"product_name"`
	Category string `json:"product_category"`
	Price    int64  `json:"product_price"`
	Image    string `json:"product_image"`
}

// productPayload — тело запроса создания/обновления продукта.
// Цена принимается целым числом минимальных денежных единиц.
type productPayload struct {
	Name     *string      `json:"product_name"`
	Category *string      `json:"product_category"`
	Price    *json.Number `json:"product_price"`
	Image    *string      `json:"product_image"`
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает все товары каталога
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}		productJSON
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/product [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.catalogUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Errorf(err, "Failed to list products")
		WriteError(w, err)
		return
	}

	result := make([]productJSON, 0, len(products))
	for i := range products {
		result = append(result, toProductJSON(&products[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

// getProduct
//
//	@Summary		Товар по идентификатору
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int	true	"ID товара"
//	@Success		200	{object}	productJSON
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/product/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("Failed to get product %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductJSON(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает товар; при ошибке валидации возвращает список полей
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		productPayload	true	"Товар"
//	@Success		201		{object}	productJSON
//	@Failure		422		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/api/product [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeProductPayload(r)
	if err != nil {
		p.logger.Warnf("Failed to decode product payload: %s", err.Error())
		WriteError(w, err)
		return
	}

	req := usecase.NewCreateProductReq(
		stringOrEmpty(payload.Name),
		stringOrEmpty(payload.Category),
		-1, // отсутствующая цена должна попасть в список невалидных полей
		stringOrEmpty(payload.Image),
	)
	if payload.Price != nil {
		price, err := parsePrice(*payload.Price)
		if err != nil {
			WriteError(w, e.NewValidationError("product_price"))
			return
		}
		req.Price = price
	}

	product, err := p.catalogUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("Failed to create product: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductJSON(product))
}

// updateProduct
//
//	@Summary		Частичное обновление товара
//	@Description	Обновляет только переданные поля
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"ID товара"
//	@Param			request	body		productPayload	true	"Изменяемые поля"
//	@Success		200		{object}	productJSON
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/product/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	payload, err := decodeProductPayload(r)
	if err != nil {
		p.logger.Warnf("Failed to decode product payload: %s", err.Error())
		WriteError(w, err)
		return
	}

	req := &usecase.UpdateProductReq{
		Name:     payload.Name,
		Category: payload.Category,
		Image:    payload.Image,
	}
	if payload.Price != nil {
		price, err := parsePrice(*payload.Price)
		if err != nil {
			WriteError(w, e.NewValidationError("product_price"))
			return
		}
		req.Price = &price
	}

	product, err := p.catalogUsecase.UpdateProduct(r.Context(), id, req)
	if err != nil {
		p.logger.Warnf("Failed to update product %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductJSON(product))
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Отклоняется, если на товар ссылаются позиции заказов
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int						true	"ID товара"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		400	{object}	ErrorResponse	"Товар используется заказами"
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/product/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.catalogUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("Failed to delete product %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "product deleted",
	})
}

// attachImage
//
//	@Summary		Загрузка изображения товара
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		200		{object}	productJSON
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/product/{id}/image [post]
func (p *ProductHandler) attachImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
		maxFileSize         = 15 << 20
	)

	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImage)
		return
	}

	data, mimeType, err := readImageFile(files[0], maxFileSize)
	if err != nil {
		p.logger.Warnf("Failed to read image for product %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	image := usecase.ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Name:     files[0].Filename,
	}

	product, err := p.catalogUsecase.AttachProductImage(r.Context(), usecase.NewAttachImageReq(id, image))
	if err != nil {
		p.logger.Warnf("Failed to attach image to product %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductJSON(product))
}

func decodeProductPayload(r *http.Request) (*productPayload, error) {
	var payload productPayload

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return &payload, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toProductJSON(p *usecase.ProductRes) productJSON {
	return productJSON{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Image:    p.Image,
	}
}
