package main

import (
	"log/slog"

	"github.com/jmoiron/sqlx"

	"soravault/internal/auth"
	"soravault/internal/config"
	"soravault/internal/handlers"
	"soravault/internal/notify"
	"soravault/internal/ratelimit"
	"soravault/internal/realtime"
	"soravault/internal/repositories"
	"soravault/internal/services"
)

type application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sqlx.DB

	tokens    *auth.Manager
	hub       *realtime.Hub
	aiLimiter *ratelimit.Limiter
	bg        *services.Background

	profileService *services.ProfileService
	aiService      *services.AIService

	profileHandler    *handlers.ProfileHandler
	collectionHandler *handlers.CollectionHandler
	itemHandler       *handlers.ItemHandler
	wearHandler       *handlers.WearHandler
	tripHandler       *handlers.TripHandler
	waterHandler      *handlers.WaterHandler
	wishlistHandler   *handlers.WishlistHandler
	friendHandler     *handlers.FriendHandler
	postHandler       *handlers.PostHandler
	messageHandler    *handlers.MessageHandler
	forumHandler      *handlers.ForumHandler
	deviceHandler     *handlers.DeviceHandler
	aiHandler         *handlers.AIHandler
}

// deps are the outside collaborators main builds from config before the
// application graph is assembled.
type deps struct {
	tokens  *auth.Manager
	hub     *realtime.Hub
	pub     realtime.Publisher
	storage services.Uploader
	ai      services.AIClient
	prices  services.PriceEstimator
	push    notify.Notifier
	devices *repositories.DeviceRepository
}

func initializeApp(cfg config.Config, db *sqlx.DB, logger *slog.Logger, d deps) *application {
	// Repositories
	profileRepo := &repositories.ProfileRepository{DB: db}
	collectionRepo := &repositories.CollectionRepository{DB: db}
	itemRepo := &repositories.ItemRepository{DB: db}
	wearRepo := &repositories.WearRepository{DB: db}
	tripRepo := &repositories.TripRepository{DB: db}
	eventRepo := &repositories.EventRepository{DB: db}
	waterRepo := &repositories.WaterRepository{DB: db}
	wishlistRepo := &repositories.WishlistRepository{DB: db}
	friendshipRepo := &repositories.FriendshipRepository{DB: db}
	postRepo := &repositories.PostRepository{DB: db}
	messageRepo := &repositories.MessageRepository{DB: db}
	forumRepo := &repositories.ForumRepository{DB: db}
	deviceRepo := d.devices
	if deviceRepo == nil {
		deviceRepo = &repositories.DeviceRepository{DB: db}
	}

	bg := &services.Background{Logger: logger}

	// Services
	profileService := services.NewProfileService(profileRepo)
	collectionService := services.NewCollectionService(collectionRepo, d.pub, logger)
	itemService := services.NewItemService(itemRepo, collectionRepo, wearRepo, waterRepo, d.storage, d.pub, logger)
	wearService := services.NewWearService(wearRepo, itemRepo, tripRepo, eventRepo, d.pub, logger)
	tripService := services.NewTripService(tripRepo, eventRepo, wearRepo, d.pub, logger)
	waterService := services.NewWaterService(waterRepo, itemRepo, d.pub, logger)
	wishlistService := services.NewWishlistService(wishlistRepo, collectionRepo, d.pub, logger)
	statsService := &services.StatsService{Items: itemRepo, Collections: collectionRepo, Wear: wearRepo, Water: waterRepo}
	friendService := services.NewFriendService(friendshipRepo, profileRepo, d.push, bg, d.pub, logger)
	postService := services.NewPostService(postRepo, itemRepo, d.ai, bg, d.pub, logger)
	messageService := services.NewMessageService(messageRepo, friendshipRepo, profileRepo, d.push, bg, d.pub, logger)
	forumService := services.NewForumService(forumRepo, d.ai, bg, d.pub, logger)
	deviceService := &services.DeviceService{Devices: deviceRepo}
	aiService := services.NewAIService(d.ai, d.prices, itemRepo, d.storage, d.pub, logger)

	return &application{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		tokens:    d.tokens,
		hub:       d.hub,
		aiLimiter: ratelimit.PerMinute(cfg.AI.RatePerMinute, cfg.AI.Burst),
		bg:        bg,

		profileService: profileService,
		aiService:      aiService,

		// Handlers
		profileHandler:    &handlers.ProfileHandler{Service: profileService},
		collectionHandler: &handlers.CollectionHandler{Service: collectionService, Stats: statsService},
		itemHandler:       &handlers.ItemHandler{Service: itemService},
		wearHandler:       &handlers.WearHandler{Service: wearService},
		tripHandler:       &handlers.TripHandler{Service: tripService},
		waterHandler:      &handlers.WaterHandler{Service: waterService},
		wishlistHandler:   &handlers.WishlistHandler{Service: wishlistService},
		friendHandler:     &handlers.FriendHandler{Service: friendService},
		postHandler:       &handlers.PostHandler{Service: postService},
		messageHandler:    &handlers.MessageHandler{Service: messageService},
		forumHandler:      &handlers.ForumHandler{Service: forumService},
		deviceHandler:     &handlers.DeviceHandler{Service: deviceService},
		aiHandler:         &handlers.AIHandler{Service: aiService},
	}
}
