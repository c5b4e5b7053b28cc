package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/contacts"
	auditlog "github.com/baechuer/real-time-ressys/services/contacts-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/imaging"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/mail"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/infrastructure/storage"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/logger"
	http_handlers "github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/router"
)

const (
	jwtIssuer        = "contacts-service"
	verifyPath       = "/api/users/verify/"
	startupTimeout   = 10 * time.Second
	fallbackIPLimit  = 100
	fallbackIPWindow = time.Minute
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewMailProvider func(cfg *config.Config) (mail.Provider, error)

	// NewAvatarStore returns the store and, for the local store, the directory
	// the router should serve at /avatars/*.
	NewAvatarStore func(ctx context.Context, cfg *config.Config) (auth.AvatarStore, string, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

// Publisher carries both user and contact domain events.
type Publisher interface {
	auth.EventPublisher
	contacts.EventPublisher
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	if cfg.DBAutoMigrate && deps.Migrate != nil {
		if err := deps.Migrate(ctx, db); err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
		logger.Logger.Info().Msg("database migrated")
	}

	userRepo := postgres.NewUserRepo(db)
	contactRepo := postgres.NewContactRepo(db)

	// 2) redis (best-effort)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limit")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub Publisher
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env != "dev" {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		} else {
			pub = p
		}
	}
	if pub == nil {
		pub = memory.NewNoopPublisher(logger.Logger)
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 4) mail
	provider, err := deps.NewMailProvider(cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	logger.Logger.Info().Str("provider", provider.Name()).Msg("mail provider ready")

	// 5) avatar storage
	avatars, avatarDir, err := deps.NewAvatarStore(ctx, cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 6) services
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, jwtIssuer)
	audit := auditlog.New(logger.Logger).Func()

	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		mail.NewSender(provider),
		pub,
		imaging.NewProcessor(0),
		avatars,
		auth.Config{
			AccessTTL:                cfg.AccessTokenTTL,
			VerifyBaseURL:            cfg.PublicBaseURL + verifyPath,
			RequireEmailVerification: cfg.RequireEmailVerification,
			MailTimeout:              cfg.MailTimeout,
		},
	).WithAudit(audit)

	contactSvc := contacts.NewService(contactRepo, pub).WithAudit(audit)

	// 7) handlers + middleware
	usersH := http_handlers.NewUserHandler(authSvc, cfg.AvatarMaxBytes, cfg.AvatarTmpDir)
	contactsH := http_handlers.NewContactHandler(contactSvc)
	healthH := http_handlers.NewHealthHandler(db)

	authMW := middleware.Auth(authSvc, response.WriteError)

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if rc, ok := redisCli.(*redis.Client); ok && cfg.RateLimitEnabled {
		fwLimiter = redis.NewFixedWindowLimiter(rc)
	}

	rl := func(key string, limit int) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   cfg.RLWindow,
			},
			response.WriteError,
		)
	}

	var ipLimit *router.IPLimit
	if cfg.RateLimitEnabled && fwLimiter == nil {
		ipLimit = &router.IPLimit{Limit: fallbackIPLimit, Window: fallbackIPWindow}
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   healthH,
		Users:    usersH,
		Contacts: contactsH,
		AuthMW:   authMW,

		RLSignup: rl("users.signup", cfg.RLSignupLimit),
		RLLogin:  rl("users.login", cfg.RLLoginLimit),
		RLVerify: rl("users.verify", cfg.RLVerifyLimit),

		FallbackIPLimit: ipLimit,
		AvatarDir:       avatarDir,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    postgres.Migrate,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewMailProvider: defaultMailProvider,
		NewAvatarStore:  defaultAvatarStore,
		NewRouter:       router.New,
	}
}

func defaultMailProvider(cfg *config.Config) (mail.Provider, error) {
	if cfg.SendGridAPIKey == "" {
		return mail.NewLogProvider(logger.Logger), nil
	}
	return mail.NewSendGridProvider(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
}

func defaultAvatarStore(ctx context.Context, cfg *config.Config) (auth.AvatarStore, string, error) {
	if cfg.S3Bucket != "" {
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}, logger.Logger)
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	}

	s, err := storage.NewLocalStore(cfg.AvatarDir, cfg.AvatarBaseURL)
	if err != nil {
		return nil, "", err
	}
	return s, s.Dir(), nil
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
