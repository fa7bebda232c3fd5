package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/kasirhub/pos-backend/internal/cfg"
	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/logger"
)

// Client — HTTP-клиент сервиса каталога для получения цен продуктов.
// Каждый вызов ограничен таймаутом из конфигурации; недоступность
// каталога не должна подвешивать запись заказа.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        *cfg.CatalogClientCfg
	logger     logger.Logger
}

func NewClient(cfg *cfg.CatalogClientCfg, logger logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cfg:        cfg,
		logger:     logger,
	}
}

// productPayload — ответ каталога GET /api/product/{id}.
type productPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"product_name"`
	Category string `json:"product_category"`
	Price    int64  `json:"product_price"`
	Image    string `json:"product_image"`
}

// GetProduct запрашивает карточку продукта у каталога.
// 404 транслируется в ProductNotFoundError, остальные сбои —
// в ErrCatalogUnavailable.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*usecase.ProductInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/product/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("Catalog request failed (Product ID: %d): %v", productID, err)
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrCatalogUnavailable, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &e.ProductNotFoundError{ProductID: productID}
	case resp.StatusCode != http.StatusOK:
		c.logger.Warnf("Catalog returned status %d (Product ID: %d)", resp.StatusCode, productID)
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: status %d", e.ErrCatalogUnavailable, resp.StatusCode))
	}

	var payload productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrCatalogUnavailable, err))
	}

	info := usecase.NewProductInfo(payload.ID, payload.Name, payload.Category, payload.Price, payload.Image)

	return &info, nil
}
