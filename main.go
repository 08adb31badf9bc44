package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"detailbook/config"
	"detailbook/cron"
	"detailbook/database"
	bookingRepo "detailbook/database/repository/booking"
	catalogRepo "detailbook/database/repository/catalog"
	timeslotRepo "detailbook/database/repository/timeslot"
	userRepo "detailbook/database/repository/user"
	"detailbook/handlers"
	"detailbook/middleware"
	"detailbook/routes"
	"detailbook/services/apiclient"
	"detailbook/services/booking"
	"detailbook/services/catalog"
	"detailbook/services/customer"
	"detailbook/services/flow"
	"detailbook/services/pricing"
	"detailbook/services/tasks"
	"detailbook/services/timeslot"
	"detailbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const postcodeCacheTTL = 7 * 24 * time.Hour

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig
	loc := config.Location()

	if err := database.InitDB(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	db := database.Database()
	ensureIndexes(db, logger)

	utils.InitCache()

	// repositories.
	serviceRepo := catalogRepo.NewMongoServiceRepo(db)
	pricingRepo := catalogRepo.NewMongoPricingRepo(db)
	customerRepo := userRepo.NewMongoCustomerRepo(db)
	vehicleRepo := userRepo.NewMongoVehicleRepo(db)
	addressRepo := userRepo.NewMongoAddressRepo(db)
	slotRepo := timeslotRepo.NewMongoTimeSlotRepo(db)
	bookingsRepo := bookingRepo.NewMongoBookingRepo(db)

	// pricing.
	var remote *apiclient.Client
	var priceLookup pricing.ServicePriceLookup = pricing.NewRepositoryLookup(pricingRepo, logger)
	if cfg.APIBaseURL != "" {
		remote = apiclient.New(cfg.APIBaseURL, cfg.HTTPClientTimeout)
		priceLookup = apiclient.NewPriceLookup(remote, logger)
	}
	geocoder := pricing.NewCachedGeocoder(
		pricing.NewPostcodesIOGeocoder(cfg.PostcodeAPIURL, cfg.HTTPClientTimeout),
		utils.GetCacheClient(), postcodeCacheTTL, logger)
	resolver := pricing.NewPostcodeDistanceResolver(geocoder, cfg.DepotPostcode,
		cfg.FreeTravelRadiusMiles, pricing.DefaultSurchargePolicy(cfg.FreeTravelRadiusMiles))
	calculator := pricing.NewCalculator(priceLookup, resolver, cfg.Currency, logger)

	// services.
	catalogService := catalog.NewService(serviceRepo, pricingRepo, calculator, logger)
	if cfg.CatalogSeedFile != "" {
		entries, err := catalog.LoadSeedFile(cfg.CatalogSeedFile)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to load catalogue seed: %v", err)
		}
		if err := catalogService.Seed(context.Background(), entries); err != nil {
			logger.Sugar().Fatalf("main: failed to seed catalogue: %v", err)
		}
	}
	customerService := customer.NewService(customerRepo, vehicleRepo, addressRepo, bookingsRepo, logger)
	slotService := timeslot.NewService(slotRepo, loc)

	queueOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	queueClient := asynq.NewClient(queueOpts)
	defer queueClient.Close()

	bookingService := booking.NewService(booking.Deps{
		Bookings:         bookingsRepo,
		Slots:            slotRepo,
		Customers:        customerRepo,
		Vehicles:         vehicleRepo,
		Addresses:        addressRepo,
		Catalog:          catalogService,
		Pricer:           calculator,
		Tokens:           utils.NewTokenSigner(cfg.JWTSecret),
		Reminders:        tasks.NewReminderScheduler(queueClient, cfg.ReminderQueueName, cfg.ReminderLeadTime, loc, logger),
		PasswordSetupTTL: cfg.PasswordSetupTTL,
		Location:         loc,
		Logger:           logger,
	})

	// booking flow.
	var backend flow.Backend = flow.NewLocalBackend(catalogService, customerService, slotService, bookingService)
	if remote != nil {
		backend = remote
		logger.Info("booking flow uses remote API", zap.String("baseUrl", cfg.APIBaseURL))
	}
	order, err := flow.ParseStepOrder(cfg.StepOrder)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	var store flow.SessionStore
	if cfg.SessionBackend == "memory" {
		store = flow.NewMemorySessionStore()
	} else {
		store = flow.NewRedisSessionStore(utils.GetSessionCacheClient(), cfg.SessionExpiry)
	}
	manager := flow.NewManager(flow.ManagerConfig{
		Store:      store,
		Backend:    backend,
		Calculator: calculator,
		Order:      order,
		Expiry:     cfg.SessionExpiry,
		Logger:     logger,
	})

	// background work.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	worker := cron.NewReminderWorker(queueOpts, cfg.ReminderQueueName, bookingService, logger)
	worker.Start()

	windows, err := timeslot.ParseWindows(cfg.SlotTemplate)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid SLOT_TEMPLATE: %v", err)
	}
	closed, err := timeslot.ParseWeekdays(cfg.SlotClosedDays)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid SLOT_CLOSED_DAYS: %v", err)
	}
	generator := timeslot.NewGenerator(slotRepo, timeslot.GeneratorConfig{
		Windows:     windows,
		Capacity:    cfg.SlotCapacity,
		HorizonDays: cfg.SlotHorizonDays,
		ClosedDays:  closed,
		Location:    loc,
	}, logger)
	go cron.StartSlotCron(ctx, generator, cfg.SlotGenerationInterval, logger)
	utils.StartHealthMonitor(ctx, utils.RedisClients(), database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	apiHandler := &handlers.BookingAPIHandler{
		Catalog:   catalogService,
		Customers: customerService,
		Slots:     slotService,
		Bookings:  bookingService,
		Logger:    logger,
	}
	flowHandler := &handlers.FlowHandler{Flow: manager, Logger: logger}
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(apiHandler, flowHandler))

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect from MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

func ensureIndexes(db *mongo.Database, logger *zap.Logger) {
	for name, ensure := range map[string]func(*mongo.Database) error{
		"catalog":   catalogRepo.EnsureIndexes,
		"customers": userRepo.EnsureIndexes,
		"timeslots": timeslotRepo.EnsureIndexes,
		"bookings":  bookingRepo.EnsureIndexes,
	} {
		if err := ensure(db); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}
}
