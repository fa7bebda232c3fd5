package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasirhub/pos-backend/internal/cfg"
	"github.com/kasirhub/pos-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any) {}
func (nopLogger) Warnf(format string, args ...any) {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

func newTestClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(&cfg.CatalogClientCfg{
		BaseURL: baseURL,
		Timeout: timeout,
	}, nopLogger{})
}

func TestGetProduct_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"product_name":"Tea","product_category":"drink","product_price":5000,"product_image":"-"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)

	info, err := client.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.ID)
	assert.Equal(t, "Tea", info.Name)
	assert.Equal(t, int64(5000), info.Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)

	_, err := client.GetProduct(context.Background(), 42)

	var pnfErr *e.ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, int64(42), pnfErr.ProductID)
	assert.True(t, errors.Is(err, e.ErrProductNotFound))
}

func TestGetProduct_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)

	_, err := client.GetProduct(context.Background(), 1)
	require.ErrorIs(t, err, e.ErrCatalogUnavailable)
}

func TestGetProduct_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 20*time.Millisecond)

	_, err := client.GetProduct(context.Background(), 1)
	require.ErrorIs(t, err, e.ErrCatalogUnavailable)
}

func TestGetProduct_ConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.GetProduct(context.Background(), 1)
	require.ErrorIs(t, err, e.ErrCatalogUnavailable)
}
