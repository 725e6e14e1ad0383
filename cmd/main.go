package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedro-cabreu/next-level-week/internal/application"
	"github.com/pedro-cabreu/next-level-week/internal/config"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
	"github.com/pedro-cabreu/next-level-week/internal/domain/service"
	"github.com/pedro-cabreu/next-level-week/internal/handler"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/backend"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/cache"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/database"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/firestore"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/ibge"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/maps"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/messaging"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/storage"
	"github.com/pedro-cabreu/next-level-week/internal/logger"
	repoImpl "github.com/pedro-cabreu/next-level-week/internal/repository"
	"github.com/pedro-cabreu/next-level-week/internal/usecase"
	"github.com/pedro-cabreu/next-level-week/web"
)

func main() {
	envLoaded := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", os.Stderr)
		log.Fatal().Err(err).Msg("❌ invalid configuration")
	}

	log := logger.New(cfg.LogLevel, os.Stdout)
	if !envLoaded {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("❌ server stopped with error")
	}
}

// stores STORAGE_DRIVERで選択されたリポジトリとヘルスチェック・クローザー
type stores struct {
	items   repository.ItemsRepository
	points  repository.PointsRepository
	checks  map[string]handler.HealthCheck
	closers []func() error
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(); err != nil {
				log.Warn().Err(err).Msg("⚠️ failed to close resource")
			}
		}
	}()

	// 地域検索: IBGE（Redisキャッシュはオプション）
	var regions service.RegionLookup = ibge.NewClient(cfg.IBGEBaseURL)
	if cfg.RedisAddr != "" {
		redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		st.closers = append(st.closers, redisClient.Close)
		st.checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		regions = cache.NewRedisRegionCache(redisClient, regions, cfg.RegionCacheTTL, log)
		log.Info().Str("addr", cfg.RedisAddr).Msg("✅ region cache enabled (redis)")
	}

	// 収集ポイントのイベント配信
	var publisher repository.PointEventPublisher = messaging.NewNoopPointEventPublisher(log)
	if cfg.KafkaBroker != "" {
		publisher = messaging.NewKafkaPointEventPublisher(
			messaging.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic), cfg.KafkaTopic, log)
		log.Info().Str("broker", cfg.KafkaBroker).Str("topic", cfg.KafkaTopic).Msg("✅ point events enabled (kafka)")
	}
	st.closers = append(st.closers, publisher.Close)

	// アイテム画像
	var images repository.ItemImageRepository = storage.NewEmbeddedItemImageRepository(web.Uploads())
	if cfg.MinioEndpoint != "" {
		minioClient, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			return err
		}
		minioImages := storage.NewMinioItemImageRepository(minioClient, cfg.MinioBucket, log)
		if err := minioImages.EnsureBucket(ctx); err != nil {
			return err
		}
		if _, err := minioImages.Seed(ctx, web.Uploads()); err != nil {
			return err
		}
		images = minioImages
		log.Info().Str("endpoint", cfg.MinioEndpoint).Str("bucket", cfg.MinioBucket).Msg("✅ item images served from MinIO")
	}

	itemsService := application.NewItemsService(st.items, cfg.PublicBaseURL)
	pointsService := application.NewPointsService(st.points, st.items, publisher, cfg.PublicBaseURL, log)

	// BACKEND_URLが未設定ならページはプロセス内のバックエンドを使用
	var (
		catalog   service.ItemCatalog    = itemsService
		submitter service.PointSubmitter = pointsService
	)
	if cfg.BackendURL != "" {
		backendClient := backend.NewClient(cfg.BackendURL)
		catalog, submitter = backendClient, backendClient
		log.Info().Str("backend", cfg.BackendURL).Msg("🔗 create-point page uses remote backend")
	}

	sessions := usecase.NewCreatePointSessions(usecase.SessionDeps{
		Catalog:            catalog,
		Regions:            regions,
		Map:                maps.NewOSMMapRenderer(maps.DefaultTileURL, maps.DefaultAttribution, maps.DefaultZoom),
		Submitter:          submitter,
		Logger:             log,
		GeolocationTimeout: cfg.GeolocationTimeout,
		TTL:                cfg.SessionTTL,
	})
	go sessions.Run(ctx)

	templates, err := web.Templates()
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.Handlers{
		Page:    handler.NewCreatePointPageHandler(sessions),
		Items:   handler.NewItemsHandler(itemsService),
		Points:  handler.NewPointsHandler(pointsService),
		Uploads: handler.NewUploadsHandler(images),
		Regions: handler.NewRegionsHandler(regions),
		Health:  handler.NewHealthHandler(st.checks),
	}, templates, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("🚀 Ecoleta server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("🛑 shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("⚠️ graceful shutdown failed")
	}
	sessions.CloseAll()
	log.Info().Msg("👋 server stopped")
	return nil
}

// openStores 設定されたドライバーのアイテム・ポイントリポジトリを構築
// ドライバーが片方しか扱わない場合、アイテムは組み込みカタログ、ポイントはメモリにフォールバック
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{
		items:  repoImpl.NewMemoryItemsRepository(),
		points: repoImpl.NewMemoryPointsRepository(),
		checks: map[string]handler.HealthCheck{},
	}

	openPostgres := func() (*database.PostgreSQLClient, error) {
		pg, err := database.NewPostgreSQLClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, pg.Close)
		st.checks["postgres"] = pg.HealthCheck
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info().Msg("✅ PostgreSQL connection successful")
		return pg, nil
	}

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pg, err := openPostgres()
		if err != nil {
			return nil, err
		}
		st.items = repoImpl.NewPostgresItemsRepository(pg)
		st.points = repoImpl.NewPostgresPointsRepository(pg)

	case config.DriverSupabase:
		sb, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, err
		}
		st.items = repoImpl.NewSupabaseItemsRepository(sb)
		log.Info().Msg("✅ Supabase client initialized")
		if cfg.DatabaseURL != "" {
			pg, err := openPostgres()
			if err != nil {
				return nil, err
			}
			st.points = repoImpl.NewPostgresPointsRepository(pg)
		} else {
			log.Warn().Msg("⚠️ DATABASE_URL not set, points are kept in memory")
		}

	case config.DriverFirestore:
		fs, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, log)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, fs.Close)
		st.points = repoImpl.NewFirestorePointsRepository(fs.GetClient())
		if cfg.DatabaseURL != "" {
			pg, err := openPostgres()
			if err != nil {
				return nil, err
			}
			st.items = repoImpl.NewPostgresItemsRepository(pg)
		}

	case config.DriverMemory:
		log.Warn().Msg("⚠️ STORAGE_DRIVER=memory, points are lost on restart")
	}

	return st, nil
}
