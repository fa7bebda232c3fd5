package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/kasirhub/pos-backend/internal/cfg"
	v1Http "github.com/kasirhub/pos-backend/internal/delivery/v1/http"
	s3Repo "github.com/kasirhub/pos-backend/internal/repository/minio"
	"github.com/kasirhub/pos-backend/internal/repository/pgdb"
	"github.com/kasirhub/pos-backend/internal/repository/redis"
	"github.com/kasirhub/pos-backend/internal/usecase"
	"github.com/kasirhub/pos-backend/pkg/clients"
	"github.com/kasirhub/pos-backend/pkg/closer"
	"github.com/kasirhub/pos-backend/pkg/e"
	"github.com/kasirhub/pos-backend/pkg/logger"
	"github.com/kasirhub/pos-backend/pkg/postgres"
)

const shutdownTimeout = 10 * time.Second

// RunCatalog собирает и запускает сервис каталога.
func RunCatalog(cfg *config.Config, logger logger.Logger) error {
	cl := closer.NewCloser(0)

	db, err := initPGDB(logger, cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	productRepo := pgdb.NewProductRepo(db.Pool)
	cacheRepo := redis.NewCacheRepo(redisClient, cfg.Redis, logger)
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	txManager := pgdb.NewTxManager(db.Pool)

	catalogUC := usecase.NewCatalogUC(productRepo, cacheRepo, imageRepo, txManager, logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.InitCatalog(catalogUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Catalog HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	return waitForShutdown(cl, logger, errCh)
}

// waitForShutdown блокируется до сигнала завершения или фатальной ошибки
// сервера, после чего закрывает ресурсы в порядке LIFO.
func waitForShutdown(cl *closer.Closer, logger logger.Logger, errCh <-chan error) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("Shutdown finished with errors: %v", err)
	}

	logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
