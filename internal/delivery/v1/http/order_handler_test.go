package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/e"
)

// --- Mock usecase ---

type mockOrderUC struct {
	orders     map[int64]usecase.OrderRes
	createReq  *usecase.WriteOrderReq
	createErr  error
	updateID   int64
	updateReq  *usecase.WriteOrderReq
	deleted    []int64
	deleteErr  error
	deletedAll bool
	summaries  []usecase.OrderSummary
	listErr    error
}

func (m *mockOrderUC) CreateOrder(_ context.Context, req *usecase.WriteOrderReq) (*usecase.OrderRes, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.createReq = req
	return &usecase.OrderRes{
		OrderID:      101,
		CustomerName: req.CustomerName,
		TotalPrice:   4500,
		CreatedAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Items: []usecase.OrderItemRes{
			{ProductID: 1, ProductName: "Tea", Quantity: 2, Price: 1000, Subtotal: 2000},
		},
	}, nil
}

func (m *mockOrderUC) GetOrder(_ context.Context, id int64) (*usecase.OrderRes, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, &e.OrderNotFoundError{OrderID: id}
	}
	return &order, nil
}

func (m *mockOrderUC) UpdateOrder(_ context.Context, id int64, req *usecase.WriteOrderReq) (*usecase.OrderRes, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, &e.OrderNotFoundError{OrderID: id}
	}
	m.updateID = id
	m.updateReq = req
	return &order, nil
}

func (m *mockOrderUC) DeleteOrder(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockOrderUC) DeleteAllOrders(_ context.Context) error {
	m.deletedAll = true
	return nil
}

func (m *mockOrderUC) ListOrders(_ context.Context) ([]usecase.OrderSummary, error) {
	return m.summaries, m.listErr
}

func newOrderServer(uc usecase.OrderUC) *httptest.Server {
	r := chi.NewRouter()
	NewRouter(r, nopLogger{}).InitOrder(uc)
	return httptest.NewServer(r)
}

// --- Tests ---

func TestCreateOrderHandler_OK(t *testing.T) {
	uc := &mockOrderUC{}
	srv := newOrderServer(uc)
	defer srv.Close()

	payload := `{"customer_name":"Budi","items":[{"product_id":1,"quantity":2},{"product_id":2,"quantity":3}]}`
	resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NotNil(t, uc.createReq)
	assert.Equal(t, "Budi", uc.createReq.CustomerName)
	require.Len(t, uc.createReq.Items, 2)
	assert.Equal(t, int32(3), uc.createReq.Items[1].Quantity)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(101), body["order_id"])
	assert.Equal(t, float64(4500), body["total_price"])

	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "Tea", first["product_name"])
	assert.Equal(t, float64(2000), first["subtotal"])
}

func TestCreateOrderHandler_ValidationError(t *testing.T) {
	srv := newOrderServer(&mockOrderUC{createErr: e.ErrCustomerNameRequired})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(`{"items":[{"product_id":1,"quantity":1}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "customer_name is required", body.Message)
}

func TestCreateOrderHandler_ProductNotFound(t *testing.T) {
	srv := newOrderServer(&mockOrderUC{createErr: &e.ProductNotFoundError{ProductID: 42}})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(`{"customer_name":"Budi","items":[{"product_id":42,"quantity":1}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "product 42 not found", body.Message)
}

func TestCreateOrderHandler_CatalogUnavailable(t *testing.T) {
	srv := newOrderServer(&mockOrderUC{createErr: e.ErrCatalogUnavailable})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader(`{"customer_name":"Budi","items":[{"product_id":1,"quantity":1}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCreateOrderHandler_MalformedJSON(t *testing.T) {
	srv := newOrderServer(&mockOrderUC{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/orders", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	srv := newOrderServer(&mockOrderUC{orders: map[int64]usecase.OrderRes{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/orders/99")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "order 99 not found", body.Message)
}

func TestListOrdersHandler_OK(t *testing.T) {
	srv := newOrderServer(&mockOrderUC{summaries: []usecase.OrderSummary{
		{ID: 2, CustomerName: "Siti", TotalAmount: 2800, CreatedAt: time.Now(), Items: "Cake x4"},
		{ID: 1, CustomerName: "Budi", TotalAmount: 4500, CreatedAt: time.Now(), Items: "Tea x2, Cake x3"},
	}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/orders")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "Cake x4", body[0]["items"])
	assert.Equal(t, float64(2800), body[0]["total_amount"])
}

func TestUpdateOrderHandler_OK(t *testing.T) {
	uc := &mockOrderUC{orders: map[int64]usecase.OrderRes{
		5: {OrderID: 5, CustomerName: "Siti", TotalPrice: 2800},
	}}
	srv := newOrderServer(uc)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/orders/5", strings.NewReader(`{"customer_name":"Siti","items":[{"product_id":2,"quantity":4}]}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(5), uc.updateID)
	require.NotNil(t, uc.updateReq)
	assert.Equal(t, "Siti", uc.updateReq.CustomerName)
}

func TestDeleteOrderHandler_OK(t *testing.T) {
	uc := &mockOrderUC{}
	srv := newOrderServer(uc)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/orders/7", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int64{7}, uc.deleted)
}

func TestDeleteAllOrdersHandler_OK(t *testing.T) {
	uc := &mockOrderUC{}
	srv := newOrderServer(uc)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/orders", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, uc.deletedAll)
}
