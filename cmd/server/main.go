package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
	"github.com/ezequieldarevalo/totalhub-backend/internal/cache"
	"github.com/ezequieldarevalo/totalhub-backend/internal/config"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
	"github.com/ezequieldarevalo/totalhub-backend/internal/email"
	"github.com/ezequieldarevalo/totalhub-backend/internal/infrastructure/repository"
	handlers "github.com/ezequieldarevalo/totalhub-backend/internal/interfaces/http"
	"github.com/ezequieldarevalo/totalhub-backend/internal/scheduler"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.GetDBConnString())
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("database ping failed", zap.Error(err))
	}

	// Optional public-listing cache. The services tolerate a nil cache.
	publicCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
		publicCache = nil
	}
	if publicCache != nil {
		defer publicCache.Close()
	}

	emailClient, err := email.NewClient(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.SMTPFromName,
		cfg.SMTPFromEmail,
		logger,
	)
	if err != nil {
		logger.Warn("email client initialization failed, continuing without email", zap.Error(err))
		emailClient = nil
	}

	// Repositories
	hostelRepo := repository.NewHostelRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	roomRepo := repository.NewRoomRepository(db, logger)
	roomTypeRepo := repository.NewRoomTypeRepository(db, logger)
	featureRepo := repository.NewRoomFeatureRepository(db, logger)
	dayPriceRepo := repository.NewDayPriceRepository(db, logger)
	reservationRepo := repository.NewReservationRepository(db, logger)
	paymentRepo := repository.NewPaymentRepository(db, logger)
	guestRepo := repository.NewGuestRepository(db, logger)
	channelRepo := repository.NewChannelRepository(db, logger)
	connectionRepo := repository.NewChannelConnectionRepository(db, logger)
	syncRepo := repository.NewChannelSyncRepository(db, logger)

	// Services
	authService := application.NewAuthService(hostelRepo, userRepo, cfg.JWTSecret, logger)
	hostelService := application.NewHostelService(hostelRepo)
	roomService := application.NewRoomService(roomRepo, roomTypeRepo, featureRepo)
	dayPriceService := application.NewDayPriceService(dayPriceRepo, roomRepo, publicCache, logger)
	reservationService := application.NewReservationService(
		reservationRepo, roomRepo, dayPriceRepo, paymentRepo, guestRepo, hostelRepo,
		emailClient, publicCache, logger,
	)
	guestService := application.NewGuestService(guestRepo, reservationRepo)
	publicService := application.NewPublicService(hostelRepo, roomRepo, reservationService, publicCache, logger)
	channelService := application.NewChannelService(channelRepo, connectionRepo, syncRepo, roomRepo, reservationService, logger)
	externalService := application.NewExternalService(connectionRepo, syncRepo, roomRepo, dayPriceRepo, channelService, reservationService, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	hostelHandler := handlers.NewHostelHandler(hostelService)
	roomHandler := handlers.NewRoomHandler(roomService)
	dayPriceHandler := handlers.NewDayPriceHandler(dayPriceService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	guestHandler := handlers.NewGuestHandler(guestService)
	publicHandler := handlers.NewPublicHandler(publicService)
	channelHandler := handlers.NewChannelHandler(channelService, externalService)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))

	api := app.Group("/api")

	// Public booking site, keyed by hostel slug. No auth.
	api.Get("/public", publicHandler.ListHostels)
	public := api.Group("/public/:slug")
	public.Get("/", publicHandler.GetHostel)
	public.Get("/rooms", publicHandler.ListRooms)
	public.Get("/availability", publicHandler.Search)
	public.Get("/rooms/:roomSlug/quote", publicHandler.Quote)
	public.Post("/book", publicHandler.Book)
	public.Get("/my-bookings", publicHandler.MyBookings)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Everything below requires a valid token.
	protected := api.Group("", handlers.Protected(cfg.JWTSecret))

	protected.Get("/me", authHandler.Me)

	operators := protected.Group("/operators", handlers.RequireRole(domain.RoleAdmin))
	operators.Post("/", authHandler.CreateOperator)
	operators.Get("/", authHandler.ListOperators)

	hostels := protected.Group("/hostels")
	hostels.Get("/", handlers.RequireRole(domain.RoleSuperadmin), hostelHandler.List)
	hostels.Get("/me", hostelHandler.Get)

	rooms := protected.Group("/rooms")
	rooms.Post("/", roomHandler.Create)
	rooms.Get("/", roomHandler.List)
	rooms.Get("/:id", roomHandler.Get)
	rooms.Put("/:id", roomHandler.Update)
	rooms.Delete("/:id", roomHandler.Delete)

	roomTypes := protected.Group("/room-types")
	roomTypes.Post("/", handlers.RequireRole(domain.RoleSuperadmin), roomHandler.CreateRoomType)
	roomTypes.Get("/", roomHandler.ListRoomTypes)
	roomTypes.Put("/:id", handlers.RequireRole(domain.RoleSuperadmin), roomHandler.UpdateRoomType)

	features := protected.Group("/features")
	features.Post("/", handlers.RequireRole(domain.RoleSuperadmin), roomHandler.CreateFeature)
	features.Get("/", roomHandler.ListFeatures)
	features.Delete("/:id", handlers.RequireRole(domain.RoleSuperadmin), roomHandler.DeleteFeature)

	prices := protected.Group("/day-prices")
	prices.Post("/", dayPriceHandler.SetPrice)
	prices.Post("/range", dayPriceHandler.SetRange)
	prices.Delete("/:roomId/:date", dayPriceHandler.RemovePrice)
	prices.Get("/room/:roomId", dayPriceHandler.GetRoomPrices)
	prices.Get("/grid", dayPriceHandler.GetGrid)

	reservations := protected.Group("/reservations")
	reservations.Post("/", reservationHandler.Create)
	reservations.Get("/preview", reservationHandler.Preview)
	reservations.Get("/calendar", reservationHandler.Calendar)
	reservations.Get("/income", reservationHandler.Income)
	reservations.Get("/occupancy", reservationHandler.Occupancy)
	reservations.Get("/", reservationHandler.List)
	reservations.Get("/:id", reservationHandler.Get)
	reservations.Put("/:id", reservationHandler.Update)
	reservations.Post("/:id/cancel", reservationHandler.Cancel)
	reservations.Delete("/:id", handlers.RequireRole(domain.RoleAdmin), reservationHandler.Delete)
	reservations.Post("/:id/payments", reservationHandler.AddPayment)
	reservations.Get("/:id/payments", reservationHandler.ListPayments)

	guests := protected.Group("/guests")
	guests.Post("/", guestHandler.Create)
	guests.Get("/", guestHandler.List)
	guests.Get("/search", guestHandler.Search)
	guests.Get("/:id", guestHandler.Get)
	guests.Get("/:id/history", guestHandler.History)
	guests.Put("/:id", guestHandler.Update)
	guests.Delete("/:id", handlers.RequireRole(domain.RoleAdmin), guestHandler.Delete)

	channels := protected.Group("/channels")
	channels.Post("/", handlers.RequireRole(domain.RoleSuperadmin), channelHandler.CreateChannel)
	channels.Get("/", channelHandler.ListChannels)

	connections := protected.Group("/channel-connections", handlers.RequireRole(domain.RoleAdmin))
	connections.Post("/", channelHandler.Connect)
	connections.Get("/", channelHandler.ListConnections)
	connections.Put("/:id", channelHandler.UpdateConnection)
	connections.Delete("/:id", channelHandler.Disconnect)

	syncs := protected.Group("/channel-syncs", handlers.RequireRole(domain.RoleAdmin))
	syncs.Get("/", channelHandler.SyncLog)
	syncs.Get("/:id", channelHandler.GetSync)
	syncs.Post("/:id/retry", channelHandler.RetrySync)

	// Channel-manager facing surface. Connections gate access through
	// their enabled flag rather than a user token.
	external := api.Group("/external")
	external.Post("/bookings", channelHandler.IngestBooking)
	external.Get("/availability/:connectionId", channelHandler.AvailabilityFeed)
	external.Get("/prices/:connectionId/:roomId", channelHandler.PriceFeed)
	external.Post("/connections/:connectionId/rooms", channelHandler.AssignRoom)

	reconciler := scheduler.NewReconciliationScheduler(reservationRepo, logger)
	reconciler.Start()
	defer reconciler.Stop()

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
