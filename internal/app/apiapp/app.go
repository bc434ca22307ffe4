package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SketchTurnerrr/imago-server/internal/config"
	s3infra "github.com/SketchTurnerrr/imago-server/internal/infra/s3"
	"github.com/SketchTurnerrr/imago-server/internal/jobs/cleanup"
	"github.com/SketchTurnerrr/imago-server/internal/migrations"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
	redrepo "github.com/SketchTurnerrr/imago-server/internal/repo/redis"
	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	chatssvc "github.com/SketchTurnerrr/imago-server/internal/services/chats"
	likessvc "github.com/SketchTurnerrr/imago-server/internal/services/likes"
	matchessvc "github.com/SketchTurnerrr/imago-server/internal/services/matches"
	photossvc "github.com/SketchTurnerrr/imago-server/internal/services/photos"
	profilessvc "github.com/SketchTurnerrr/imago-server/internal/services/profiles"
	promptssvc "github.com/SketchTurnerrr/imago-server/internal/services/prompts"
	ratesvc "github.com/SketchTurnerrr/imago-server/internal/services/rate"
)

type App struct {
	cfg         config.Config
	logger      *zap.Logger
	server      *http.Server
	postgres    *pgxpool.Pool
	redis       *goredis.Client
	s3          *minio.Client
	httpRouter  http.Handler
	cleanupJob  *cleanup.Job
	cleanupStop chan struct{}
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	if pool != nil && cfg.Postgres.Migrate {
		if err := migrations.Up(cfg.Postgres.DSN); err != nil {
			log.Warn("migrations failed, continuing in degraded mode", zap.Error(err))
		}
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	promptRepo := pgrepo.NewPromptRepo(pool)
	likeRepo := pgrepo.NewLikeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	conversationRepo := pgrepo.NewConversationRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)

	runTx := func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, pool, fn)
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.LikesPerMinute)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	var presigner *s3infra.Presigner
	if s3Client != nil {
		presigner = s3infra.NewPresigner(s3Client, cfg.S3.Bucket, cfg.S3.URLTTL)
	}

	photoService := photossvc.NewService(photossvc.Dependencies{
		Photos: photoRepo,
		RunTx:  runTx,
	})
	profileService := profilessvc.NewService(profilessvc.Dependencies{
		Users:   userRepo,
		Photos:  photoRepo,
		Prompts: promptRepo,
	})
	promptService := promptssvc.NewService(promptRepo)
	likeService := likessvc.NewService(likessvc.Dependencies{
		Likes:   likeRepo,
		Users:   userRepo,
		Photos:  photoRepo,
		Prompts: promptRepo,
	})
	likeService.AttachLimiter(rateLimiter)
	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Users:         userRepo,
		Likes:         likeRepo,
		Matches:       matchRepo,
		Conversations: conversationRepo,
		Messages:      messageRepo,
		RunTx:         runTx,
	})
	chatService := chatssvc.NewService(chatssvc.Dependencies{
		Conversations: conversationRepo,
		Messages:      messageRepo,
		Users:         userRepo,
		Photos:        photoRepo,
		Prompts:       promptRepo,
		RunTx:         runTx,
	})

	if presigner != nil {
		photoService.AttachSigner(presigner)
		profileService.AttachSigner(presigner)
		likeService.AttachSigner(presigner)
		chatService.AttachSigner(presigner)
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		ProfileService: profileService,
		PhotoService:   photoService,
		PromptService:  promptService,
		LikeService:    likeService,
		MatchService:   matchService,
		ChatService:    chatService,
		Logger:         log,
		Config:         cfg,
	})

	var cleanupJob *cleanup.Job
	if pool != nil {
		cleanupJob = cleanup.New(likeRepo, 24*time.Hour, log)
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      server,
		postgres:    pool,
		redis:       redisClient,
		s3:          s3Client,
		httpRouter:  r,
		cleanupJob:  cleanupJob,
		cleanupStop: make(chan struct{}),
	}, nil
}

func (a *App) Run() error {
	if a.cleanupJob != nil {
		go a.runCleanupLoop()
	}

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) runCleanupLoop() {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-a.cleanupStop:
			return
		case <-ticker.C:
			if err := a.cleanupJob.Run(context.Background()); err != nil {
				a.logger.Warn("cleanup run failed", zap.Error(err))
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	close(a.cleanupStop)

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
