package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mintly/mintly-api/docs"
	v1 "github.com/mintly/mintly-api/internal/api/handler/v1"
	"github.com/mintly/mintly-api/internal/api/middleware"
	"github.com/mintly/mintly-api/internal/config"
	"github.com/mintly/mintly-api/internal/metrics"
	"github.com/mintly/mintly-api/internal/repository"
	"github.com/mintly/mintly-api/internal/repository/dao"
	"github.com/mintly/mintly-api/internal/service"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	shutdownTimeout       = 10 * time.Second
)

// Dependencies are the optional external systems. Nil values fall back to
// the database or are skipped.
type Dependencies struct {
	Publisher   service.MessagePublisher
	Idempotency middleware.IdempotencyStore
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Feed   *v1.FeedHub
}

type handlers struct {
	auth         *v1.AuthHandler
	event        *v1.EventHandler
	participant  *v1.ParticipantHandler
	vendor       *v1.VendorHandler
	rpc          *v1.RPCHandler
	transactions *v1.TransactionHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, deps Dependencies) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	if deps.Idempotency == nil {
		ttl := defaultIdempotencyTTL
		if conf.Redis != nil && conf.Redis.IdempotencyTTL > 0 {
			ttl = conf.Redis.IdempotencyTTL
		}
		deps.Idempotency = dao.NewIdempotencyDAO(db, ttl)
	}

	h := s.initHandlers(db, deps)
	s.MountHandlers(h, middleware.NewIdempotency(deps.Idempotency))

	return s
}

func (s *Server) initHandlers(db *gorm.DB, deps Dependencies) handlers {
	var opts []service.Option
	var lockTimeout time.Duration
	if s.Config.Ledger != nil {
		opts = append(opts, service.WithCodeAttempts(s.Config.Ledger.CodeAttempts))
		lockTimeout = s.Config.Ledger.LockTimeout
	}

	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	vendorRepo := repository.NewVendorRepository(dao.NewVendorDAO(db))
	badgeRepo := repository.NewBadgeRepository(dao.NewBadgeDAO(db))
	organizerRepo := repository.NewOrganizerRepository(dao.NewOrganizerDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db, lockTimeout), dao.NewTransactionDAO(db))

	eventSvc := service.NewEventService(eventRepo, opts...)
	s.Feed = v1.NewFeedHub(eventSvc, s.Config.API.AllowedCORSDomains)
	notifier := service.NewNotifier(deps.Publisher, s.Feed)

	badgeSvc := service.NewBadgeService(badgeRepo, participantRepo, eventRepo, opts...)
	participantSvc := service.NewParticipantService(participantRepo, ledgerRepo, eventSvc, badgeSvc, notifier, opts...)
	vendorSvc := service.NewVendorService(vendorRepo, eventSvc, opts...)
	ledgerSvc := service.NewLedgerService(ledgerRepo, eventSvc, badgeSvc, notifier, opts...)
	authSvc := service.NewAuthService(organizerRepo)
	organizerSvc := service.NewOrganizerService(organizerRepo)

	return handlers{
		auth:         v1.NewAuthHandler(s.Config.API, authSvc, organizerSvc),
		event:        v1.NewEventHandler(eventSvc),
		participant:  v1.NewParticipantHandler(participantSvc, badgeSvc),
		vendor:       v1.NewVendorHandler(vendorSvc),
		rpc:          v1.NewRPCHandler(participantSvc, ledgerSvc),
		transactions: v1.NewTransactionHandler(ledgerSvc),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.NewRateLimiter(s.Config.API.RateLimit).Middleware())
}

func (s *Server) MountHandlers(h handlers, idempotency *middleware.Idempotency) {
	const basePath = "/api/v1"

	requireJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()
	replay := idempotency.Middleware()

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)

		public.GET("/events/:eventID", h.event.HandleGetEvent)
		public.GET("/events/:eventID/vendors", h.vendor.HandleListVendors)
		public.GET("/events/:eventID/badges", h.participant.HandleEventBadges)
		public.GET("/events/:eventID/feed", s.Feed.HandleFeed)

		public.GET("/vendors/code/:code", h.vendor.HandleGetByVendorCode)
		public.GET("/participants/code/:joinCode", h.participant.HandleGetByJoinCode)
		public.GET("/participants/:participantID/badges", h.participant.HandleParticipantBadges)
		public.GET("/wallets/:walletID/transactions", h.transactions.HandleWalletTransactions)

		public.POST("/rpc/join_event_secure", h.rpc.HandleJoinEvent)
		public.POST("/rpc/process_payment_secure", replay, h.rpc.HandleProcessPayment)
		public.POST("/rpc/transfer_funds_secure", replay, h.rpc.HandleTransferFunds)
	}

	organizer := s.Router.Group(basePath, requireJWT)
	{
		organizer.GET("/auth/me", h.auth.HandleMe)

		organizer.GET("/events", h.event.HandleListMyEvents)
		organizer.POST("/events", h.event.HandleCreateEvent)
		organizer.PATCH("/events/:eventID", h.event.HandleUpdateEvent)
		organizer.GET("/events/:eventID/stats", h.event.HandleGetEventStats)
		organizer.GET("/events/:eventID/participants", h.participant.HandleListParticipants)
		organizer.GET("/events/:eventID/transactions", h.transactions.HandleEventTransactions)
		organizer.POST("/events/:eventID/vendors", h.vendor.HandleCreateVendor)

		organizer.PATCH("/vendors/:vendorID", h.vendor.HandleUpdateVendor)
		organizer.DELETE("/vendors/:vendorID", h.vendor.HandleDeleteVendor)

		organizer.POST("/rpc/send_reward_secure", replay, h.rpc.HandleSendReward)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Mintly API"
	docs.SwaggerInfo.Description = "Event currency ledger: wallets, vendor payments, transfers and rewards."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	go s.Feed.Run(feedCtx)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("srv.ListenAndServe -> %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}

	return nil
}
