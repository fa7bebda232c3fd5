package domain

import "time"

// Order описывает заказ: шапка плюс позиции.
// TotalAmount всегда вычисляется сервером из снимков цен позиций.
type Order struct {
	ID           int64
	CustomerName string
	TotalAmount  int64
	CreatedAt    time.Time
	Items        []OrderItem
}

// OrderItem — позиция заказа. Price — снимок цены каталога
// на момент записи заказа, последующие изменения каталога его не трогают.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int32
	Price       int64
}

// Subtotal возвращает стоимость позиции по снимку цены.
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}
