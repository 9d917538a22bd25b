package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bodega/internal/config"
	"bodega/internal/handler"
	"bodega/internal/infra/db"
	"bodega/internal/infra/image"
	"bodega/internal/infra/pdf"
	infraRepo "bodega/internal/infra/repository"
	"bodega/internal/infra/token"
	"bodega/internal/logger"
	"bodega/internal/metrics"
	"bodega/internal/middleware"
	repo "bodega/internal/repository"
	"bodega/internal/server"
	"bodega/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// .env is optional; real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.GoEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	m := metrics.New()

	//Repository
	products, audit, err := openProductStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	sessions, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	images, err := openImageStore(cfg, log)
	if err != nil {
		return err
	}

	//deps
	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)
	secret, err := usecase.NewBcryptSecret(cfg.BackofficeSecret, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	renderer := pdf.NewInvoiceRenderer(cfg.BusinessName)

	//Usecase
	authUC := usecase.NewAuthUsecase(secret, issuer, sessions, idGen, clock, log)
	catalogUC := usecase.NewCatalogUsecase(products, m, log)
	productUC := usecase.NewProductUsecase(products, images, audit, sessions, idGen, clock, log)
	cartUC := usecase.NewCartUsecase(products, sessions, log)
	checkoutUC := usecase.NewCheckoutUsecase(products, sessions, audit, renderer, idGen, clock, m, log)

	//Handler
	e := server.New(log)
	server.RegisterRoutes(e, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(catalogUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, catalogUC),
		Cart:         handler.NewCartHandler(cartUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC),
	}, middleware.SessionAuth(authUC), m)

	return server.Start(ctx, e, cfg.Addr(), log)
}

// The flat file has nowhere to keep audit rows, so they only go to the log there.
func openProductStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (repo.ProductRepository, repo.AuditLogRepository, error) {
	if cfg.StoreBackend == config.BackendCSV {
		log.Info().Str("path", cfg.CSVPath).Msg("product store: csv")
		return infraRepo.NewProductCSVRepository(cfg.CSVPath), infraRepo.NewAuditLogZerologRepository(log), nil
	}

	gormDB, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, err
	}
	log.Info().Msg("product store: postgres")
	return infraRepo.NewProductGormRepository(gormDB), infraRepo.NewAuditLogGormRepository(gormDB), nil
}

func openSessionStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (repo.SessionRepository, error) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("session store: memory")
		return infraRepo.NewSessionMemoryRepository(cfg.SessionTTL), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("session store: redis")
	return infraRepo.NewSessionRedisRepository(client, cfg.SessionTTL), nil
}

func openImageStore(cfg config.Config, log zerolog.Logger) (repo.ImageStore, error) {
	if cfg.CloudinaryURL == "" {
		log.Info().Str("dir", cfg.PhotoDir).Msg("image store: local")
		return image.NewLocalStore(cfg.PhotoDir), nil
	}
	log.Info().Str("folder", cfg.CloudinaryFolder).Msg("image store: cloudinary")
	store, err := image.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		return nil, err
	}
	return store, nil
}
