package usecase

import "time"

// CATALOG USECASE

// CreateProductReq — запрос на создание продукта.
type CreateProductReq struct {
	Name     string
	Category string
	Price    int64
	Image    string
}

// UpdateProductReq — частичное обновление: nil-поля остаются без изменений.
type UpdateProductReq struct {
	Name     *string
	Category *string
	Price    *int64
	Image    *string
}

// Empty сообщает, что запрос не меняет ни одного поля.
func (r *UpdateProductReq) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Price == nil && r.Image == nil
}

// ProductRes — DTO продукта для внешнего использования.
type ProductRes struct {
	ID       int64
	Name     string
	Category string
	Price    int64
	Image    string
}

// ProductInfo — карточка продукта для кэша и межсервисного обмена.
type ProductInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte
	MimeType string
	Size     int64
	Name     string
}

// AttachImageReq — запрос на привязку изображения к продукту.
type AttachImageReq struct {
	ProductID int64
	Image     ProductImage
}

// ORDER USECASE

// OrderItemReq — позиция входящего заказа: продукт и количество.
type OrderItemReq struct {
	ProductID int64
	Quantity  int32
}

// WriteOrderReq — общий запрос создания и полного обновления заказа.
type WriteOrderReq struct {
	CustomerName string
	Items        []OrderItemReq
}

// OrderItemRes — позиция заказа в ответе, с именем продукта и снимком цены.
type OrderItemRes struct {
	ProductID   int64
	ProductName string
	Quantity    int32
	Price       int64
	Subtotal    int64
}

// OrderRes — заказ с позициями.
type OrderRes struct {
	OrderID      int64
	CustomerName string
	TotalPrice   int64
	CreatedAt    time.Time
	Items        []OrderItemRes
}

// OrderSummary — строка списка заказов с денормализованным описанием позиций
// ("Tea x3, Coffee x1"), собранным по текущим именам каталога.
type OrderSummary struct {
	ID           int64
	CustomerName string
	TotalAmount  int64
	CreatedAt    time.Time
	Items        string
}

// INFRASTRUCTURE

// Типы событий заказов.
const (
	OrderCreated = "order.created"
	OrderUpdated = "order.updated"
	OrderDeleted = "order.deleted"
)

// OrderEvent — событие жизненного цикла заказа для Kafka.
type OrderEvent struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	OrderID      int64  `json:"order_id"`
	CustomerName string `json:"customer_name,omitempty"`
	TotalAmount  int64  `json:"total_amount,omitempty"`
	OccurredAt   int64  `json:"occurred_at"`
}

// MAPPERS

func NewProductInfo(id int64, name, category string, price int64, image string) ProductInfo {
	return ProductInfo{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
		Image:    image,
	}
}

func NewCreateProductReq(name, category string, price int64, image string) *CreateProductReq {
	return &CreateProductReq{
		Name:     name,
		Category: category,
		Price:    price,
		Image:    image,
	}
}

func NewWriteOrderReq(customerName string, items []OrderItemReq) *WriteOrderReq {
	return &WriteOrderReq{
		CustomerName: customerName,
		Items:        items,
	}
}

func NewAttachImageReq(productID int64, image ProductImage) *AttachImageReq {
	return &AttachImageReq{
		ProductID: productID,
		Image:     image,
	}
}
