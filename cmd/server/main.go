package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"account-api/internal/config"
	apphttp "account-api/internal/http"
	"account-api/internal/service"
	"account-api/internal/store"
	"account-api/internal/store/jsonfile"
	"account-api/internal/store/memory"
	"account-api/internal/store/s3store"
	"account-api/internal/store/sqlite"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	} else {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}
	defer cleanup()

	gate := service.NewAuthGate(users)
	accounts := service.NewAccountService(users, gate)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(accounts, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case "memory":
		logger.Info("using in-memory store")
		return memory.New(), noop, nil
	case "file":
		logger.Infof("using file store at %s", cfg.Store.File.Path)
		return jsonfile.New(cfg.Store.File.Path), noop, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		st := sqlite.NewStore(db)
		if err := st.Init(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init database: %w", err)
		}
		logger.Infof("using sqlite store at %s", cfg.Store.SQLite.Path)
		return st, func() { db.Close() }, nil
	case "s3":
		client, err := buildS3Client(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using s3 store at s3://%s/%s (region %s)", cfg.Store.S3.Bucket, cfg.Store.S3.Key, cfg.Store.S3.Region)
		return s3store.New(client, cfg.Store.S3.Bucket, cfg.Store.S3.Key), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildS3Client(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	if cfg.Store.S3.Bucket == "" {
		return nil, fmt.Errorf("store s3 bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Store.S3.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Store.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Store.S3.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
