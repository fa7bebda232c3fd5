package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/kasirhub/pos-backend/internal/cfg"
	v1Http "github.com/kasirhub/pos-backend/internal/delivery/v1/http"
	catalogClient "github.com/kasirhub/pos-backend/internal/infrastructure/catalog"
	"github.com/kasirhub/pos-backend/internal/infrastructure/kafka"
	"github.com/kasirhub/pos-backend/internal/repository/pgdb"
	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/closer"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/logger"
)

// RunOrder собирает и запускает сервис заказов.
func RunOrder(cfg *config.Config, logger logger.Logger) error {
	cl := closer.NewCloser(0)

	db, err := initPGDB(logger, cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	// Недоступность брокера на старте не должна валить сервис:
	// публикация событий best effort.
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Warnf("Failed to ensure kafka topic: %v", err)
	}

	orderRepo := pgdb.NewOrderRepo(db.Pool)
	txManager := pgdb.NewTxManager(db.Pool)
	catalog := catalogClient.NewClient(cfg.Catalog, logger)

	orderUC := usecase.NewOrderUC(orderRepo, catalog, producer, txManager, logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.InitOrder(orderUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Order HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	return waitForShutdown(cl, logger, errCh)
}
