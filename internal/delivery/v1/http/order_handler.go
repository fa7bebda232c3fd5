package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// writeOrderPayload — тело запроса создания/обновления заказа.
// Цены в нём не принимаются: их определяет каталог.
type writeOrderPayload struct {
	CustomerName string `json:"customer_name"`
	Items        []struct {
		ProductID int64 `json:"product_id"`
		Quantity  int32 `json:"quantity"`
	} `json:"items"`
}

type orderItemJSON struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	Price       int64  `json:"price"`
	Subtotal    int64  `json:"subtotal"`
}

type orderJSON struct {
	OrderID      int64           `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	TotalPrice   int64           `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []orderItemJSON `json:"items"`
}

// orderSummaryJSON — строка списка заказов с денормализованными позициями.
type orderSummaryJSON struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  int64     `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
	Items        string    `json:"items"`
}

// listOrders
//
//	@Summary		Список заказов
//	@Description	Каждый заказ с суммой и строкой позиций вида "Tea x3, Coffee x1"
//	@Tags			orders
//	@Produce		json
//	@Success		200	{array}		orderSummaryJSON
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/orders [get]
func (o *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := o.orderUsecase.ListOrders(r.Context())
	if err != nil {
		o.logger.Errorf(err, "Failed to list orders")
		WriteError(w, err)
		return
	}

	result := make([]orderSummaryJSON, 0, len(orders))
	for _, order := range orders {
		result = append(result, orderSummaryJSON{
			ID:           order.ID,
			CustomerName: order.CustomerName,
			TotalAmount:  order.TotalAmount,
			CreatedAt:    order.CreatedAt,
			Items:        order.Items,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

// getOrder
//
//	@Summary		Заказ по идентификатору
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		int	true	"ID заказа"
//	@Success		200	{object}	orderJSON
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/orders/{id} [get]
func (o *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.GetOrder(r.Context(), id)
	if err != nil {
		o.logger.Warnf("Failed to get order %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderJSON(order))
}

// createOrder
//
//	@Summary		Создание заказа
//	@Description	Цены берутся из каталога, сумма считается на сервере
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		writeOrderPayload	true	"Заказ"
//	@Success		201		{object}	orderJSON
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Продукт не найден"
//	@Failure		502		{object}	ErrorResponse	"Каталог недоступен"
//	@Router			/api/orders [post]
func (o *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodeWriteOrder(r)
	if err != nil {
		o.logger.Warnf("Failed to decode order payload: %s", err.Error())
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.CreateOrder(r.Context(), req)
	if err != nil {
		o.logger.Warnf("Failed to create order: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderJSON(order))
}

// updateOrder
//
//	@Summary		Полное обновление заказа
//	@Description	Переписывает шапку и позиции; цены заново берутся из каталога
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"ID заказа"
//	@Param			request	body		writeOrderPayload	true	"Заказ"
//	@Success		200		{object}	orderJSON
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/orders/{id} [put]
func (o *OrderHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	req, err := decodeWriteOrder(r)
	if err != nil {
		o.logger.Warnf("Failed to decode order payload: %s", err.Error())
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.UpdateOrder(r.Context(), id, req)
	if err != nil {
		o.logger.Warnf("Failed to update order %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderJSON(order))
}

// deleteOrder
//
//	@Summary		Удаление заказа
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		int						true	"ID заказа"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/orders/{id} [delete]
func (o *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := o.orderUsecase.DeleteOrder(r.Context(), id); err != nil {
		o.logger.Warnf("Failed to delete order %d: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "order deleted",
	})
}

// deleteAllOrders
//
//	@Summary		Удаление всех заказов
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/orders [delete]
func (o *OrderHandler) deleteAllOrders(w http.ResponseWriter, r *http.Request) {
	if err := o.orderUsecase.DeleteAllOrders(r.Context()); err != nil {
		o.logger.Errorf(err, "Failed to delete all orders")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "all orders deleted",
	})
}

func decodeWriteOrder(r *http.Request) (*usecase.WriteOrderReq, error) {
	var payload writeOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	items := make([]usecase.OrderItemReq, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, usecase.OrderItemReq{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return usecase.NewWriteOrderReq(payload.CustomerName, items), nil
}

func toOrderJSON(order *usecase.OrderRes) orderJSON {
	items := make([]orderItemJSON, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemJSON{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal,
		})
	}

	return orderJSON{
		OrderID:      order.OrderID,
		CustomerName: order.CustomerName,
		TotalPrice:   order.TotalPrice,
		CreatedAt:    order.CreatedAt,
		Items:        items,
	}
}
