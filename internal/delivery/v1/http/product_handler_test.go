package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any) {}
func (nopLogger) Warnf(format string, args ...any) {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// --- Mock usecase ---

type mockCatalogUC struct {
	products  map[int64]usecase.ProductRes
	createReq *usecase.CreateProductReq
	updateReq *usecase.UpdateProductReq
	updateID  int64
	attachReq *usecase.AttachImageReq
	deleteErr error
	err       error
}

func (m *mockCatalogUC) ListProducts(_ context.Context) ([]usecase.ProductRes, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]usecase.ProductRes, 0, len(m.products))
	for _, p := range m.products {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockCatalogUC) GetProduct(_ context.Context, id int64) (*usecase.ProductRes, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, &e.ProductNotFoundError{ProductID: id}
	}
	return &p, nil
}

func (m *mockCatalogUC) CreateProduct(_ context.Context, req *usecase.CreateProductReq) (*usecase.ProductRes, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.createReq = req
	return &usecase.ProductRes{
		ID:       11,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Image:    "-",
	}, nil
}

func (m *mockCatalogUC) UpdateProduct(_ context.Context, id int64, req *usecase.UpdateProductReq) (*usecase.ProductRes, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.updateID = id
	m.updateReq = req
	p, ok := m.products[id]
	if !ok {
		return nil, &e.ProductNotFoundError{ProductID: id}
	}
	return &p, nil
}

func (m *mockCatalogUC) DeleteProduct(_ context.Context, id int64) error {
	return m.deleteErr
}

func (m *mockCatalogUC) AttachProductImage(_ context.Context, req *usecase.AttachImageReq) (*usecase.ProductRes, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.attachReq = req
	return &usecase.ProductRes{ID: req.ProductID, Name: "Tea", Category: "drink", Price: 1000, Image: "products/7/key.png"}, nil
}

func newCatalogServer(uc usecase.CatalogUC) *httptest.Server {
	r := chi.NewRouter()
	NewRouter(r, nopLogger{}).InitCatalog(uc)
	return httptest.NewServer(r)
}

// --- Tests ---

func TestGetProductHandler_OK(t *testing.T) {
	uc := &mockCatalogUC{products: map[int64]usecase.ProductRes{
		7: {ID: 7, Name: "Tea", Category: "drink", Price: 1000, Image: "-"},
	}}
	srv := newCatalogServer(uc)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/product/7")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "Tea", body["product_name"])
	assert.Equal(t, float64(1000), body["product_price"])
	assert.Equal(t, "-", body["product_image"])
}

func TestGetProductHandler_NotFound(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{products: map[int64]usecase.ProductRes{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/product/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Equal(t, "product 42 not found", body.Message)
}

func TestGetProductHandler_InvalidID(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/product/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateProductHandler_OK(t *testing.T) {
	uc := &mockCatalogUC{}
	srv := newCatalogServer(uc)
	defer srv.Close()

	payload := `{"product_name":"Tea","product_category":"drink","product_price":1000}`
	resp, err := http.Post(srv.URL+"/api/product", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NotNil(t, uc.createReq)
	assert.Equal(t, "Tea", uc.createReq.Name)
	assert.Equal(t, int64(1000), uc.createReq.Price)
}

func TestCreateProductHandler_ValidationFields(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{err: e.NewValidationError("product_name", "product_price")})
	defer srv.Close()

	payload := `{"product_category":"drink","product_price":1000}`
	resp, err := http.Post(srv.URL+"/api/product", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"product_name", "product_price"}, body.Fields)
}

func TestCreateProductHandler_FractionalPrice(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{})
	defer srv.Close()

	payload := `{"product_name":"Tea","product_category":"drink","product_price":10.5}`
	resp, err := http.Post(srv.URL+"/api/product", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"product_price"}, body.Fields)
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/product", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateProductHandler_PartialBody(t *testing.T) {
	uc := &mockCatalogUC{products: map[int64]usecase.ProductRes{
		7: {ID: 7, Name: "Tea", Category: "drink", Price: 1500, Image: "-"},
	}}
	srv := newCatalogServer(uc)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/product/7", strings.NewReader(`{"product_price":1500}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, uc.updateReq)
	assert.Equal(t, int64(7), uc.updateID)
	assert.Nil(t, uc.updateReq.Name)
	require.NotNil(t, uc.updateReq.Price)
	assert.Equal(t, int64(1500), *uc.updateReq.Price)
}

func TestDeleteProductHandler_Conflict(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{deleteErr: e.ErrProductInUse})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/product/7", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "product is referenced by existing orders", body.Message)
}

func TestDeleteProductHandler_OK(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/product/7", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAttachImageHandler_OK(t *testing.T) {
	uc := &mockCatalogUC{}
	srv := newCatalogServer(uc)
	defer srv.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "tea.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(srv.URL+"/api/product/7/image", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, uc.attachReq)
	assert.Equal(t, int64(7), uc.attachReq.ProductID)
	assert.Equal(t, "tea.png", uc.attachReq.Image.Name)
	assert.Equal(t, []byte("png-bytes"), uc.attachReq.Image.Data)
}

func TestAttachImageHandler_NotMultipart(t *testing.T) {
	srv := newCatalogServer(&mockCatalogUC{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/product/7/image", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
