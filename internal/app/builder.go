package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/config"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
	redisx "github.com/RustamTech/Medical-Request-System-Flow/internal/infra/cache/redis"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/infra/database/postgres"
	s3storage "github.com/RustamTech/Medical-Request-System-Flow/internal/infra/storage/s3"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/notify"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/service"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web"
)

type App struct {
	config  *config.Config
	server  *web.Server
	log     *log.Logger
	storage domain.BlobStorage
	cache   domain.Cache
	repo    *postgres.PGRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	mailLog := log.New(base.Writer(), base.Prefix()+"[mail] ", base.Flags())
	svcLog := log.New(base.Writer(), base.Prefix()+"[service] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init S3 storage")
	blobs, err := s3storage.New(ctx, s3storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	}, s3Log)
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}
	base.Println("S3 storage is initialized")

	base.Println("init Redis")
	cache := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := cache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	dispatcher := notify.NewEmailDispatcher(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, mailLog)

	svc := web.Services{
		Documents:    service.NewDocumentService(svcLog, pgRepo, pgRepo, pgRepo, pgRepo, blobs, cache),
		Associations: service.NewAssociationManager(svcLog, pgRepo, pgRepo, pgRepo),
		Requests:     service.NewRequestWorkflow(svcLog, pgRepo, pgRepo, pgRepo, dispatcher),
		Registry:     service.NewRegistry(svcLog, pgRepo, pgRepo),
	}

	base.Println("init Server")
	server := web.New(serverLog, cfg, svc, web.Probes{DB: pgRepo, Cache: cache, Storage: blobs})
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config:  cfg,
		server:  server,
		log:     base,
		storage: blobs,
		cache:   cache,
		repo:    pgRepo,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}
