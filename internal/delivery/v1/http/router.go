package http

import (
	"github.com/go-chi/chi/v5"
	_ "github.com/kasirhub/pos-backend/docs" // Импорт сгенерированных файлов
	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// InitCatalog регистрирует маршруты сервиса каталога.
func (r *Router) InitCatalog(catalogUC usecase.CatalogUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler())

	handler := NewProductHandler(catalogUC, r.logger)
	r.router.Route("/api/product", func(pr chi.Router) {
		pr.Get("/", handler.listProducts)
		pr.Post("/", handler.createProduct)

		pr.Route("/{id}", func(pr chi.Router) {
			pr.Get("/", handler.getProduct)
			pr.Put("/", handler.updateProduct)
			pr.Delete("/", handler.deleteProduct)
			pr.Post("/image", handler.attachImage)
		})
	})
}

// InitOrder регистрирует маршруты сервиса заказов.
func (r *Router) InitOrder(orderUC usecase.OrderUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler())

	handler := NewOrderHandler(orderUC, r.logger)
	r.router.Route("/api/orders", func(or chi.Router) {
		or.Get("/", handler.listOrders)
		or.Post("/", handler.createOrder)
		or.Delete("/", handler.deleteAllOrders)

		or.Route("/{id}", func(or chi.Router) {
			or.Get("/", handler.getOrder)
			or.Put("/", handler.updateOrder)
			or.Delete("/", handler.deleteOrder)
		})
	})
}
