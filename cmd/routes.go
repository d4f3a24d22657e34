package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"

	"soravault/internal/handlers"
	"soravault/internal/metrics"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, metrics.InstrumentHandler, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.requireAuth, handlers.RequireUUIDParams("id", "user_id"))
	aiMiddleware := authMiddleware.Append(app.aiLimiter.Middleware(userKey))

	mux := pat.New()

	mux.Get("/healthz", standardMiddleware.ThenFunc(app.healthz))
	mux.Get("/metrics", metrics.Handler())
	mux.Get("/ws", alice.New(app.recoverPanic, app.requireAuth).ThenFunc(app.hub.ServeWS))

	// Profiles
	mux.Get("/me", authMiddleware.ThenFunc(app.profileHandler.Me))
	mux.Put("/me", authMiddleware.ThenFunc(app.profileHandler.UpdateMe))
	mux.Get("/users/search", authMiddleware.ThenFunc(app.profileHandler.Search))
	mux.Get("/users/:id", authMiddleware.ThenFunc(app.profileHandler.GetUser))

	// Collections
	mux.Post("/collections", authMiddleware.ThenFunc(app.collectionHandler.Create))
	mux.Get("/collections", authMiddleware.ThenFunc(app.collectionHandler.List))
	mux.Get("/collections/:id/stats", authMiddleware.ThenFunc(app.collectionHandler.CollectionStats))
	mux.Get("/collections/:id", authMiddleware.ThenFunc(app.collectionHandler.Get))
	mux.Put("/collections/:id", authMiddleware.ThenFunc(app.collectionHandler.Update))
	mux.Del("/collections/:id", authMiddleware.ThenFunc(app.collectionHandler.Delete))
	mux.Get("/stats", authMiddleware.ThenFunc(app.collectionHandler.Overview))

	// Items
	mux.Post("/items", authMiddleware.ThenFunc(app.itemHandler.Create))
	mux.Get("/items", authMiddleware.ThenFunc(app.itemHandler.List))
	mux.Post("/items/generate-images", aiMiddleware.ThenFunc(app.aiHandler.GenerateAll))
	mux.Get("/items/:id/stats", authMiddleware.ThenFunc(app.itemHandler.Stats))
	mux.Get("/items/:id/prices", authMiddleware.ThenFunc(app.itemHandler.Prices))
	mux.Post("/items/:id/sell", authMiddleware.ThenFunc(app.itemHandler.Sell))
	mux.Post("/items/:id/photo", authMiddleware.ThenFunc(app.itemHandler.Photo))
	mux.Post("/items/:id/market-price", aiMiddleware.ThenFunc(app.aiHandler.MarketPrice))
	mux.Post("/items/:id/generate-image", aiMiddleware.ThenFunc(app.aiHandler.GenerateImage))
	mux.Get("/items/:id", authMiddleware.ThenFunc(app.itemHandler.Get))
	mux.Put("/items/:id", authMiddleware.ThenFunc(app.itemHandler.Update))
	mux.Del("/items/:id", authMiddleware.ThenFunc(app.itemHandler.Delete))

	// Wear log
	mux.Post("/wear", authMiddleware.ThenFunc(app.wearHandler.Record))
	mux.Get("/wear", authMiddleware.ThenFunc(app.wearHandler.List))
	mux.Get("/wear/day/:date", authMiddleware.ThenFunc(app.wearHandler.Day))
	mux.Put("/wear/:id", authMiddleware.ThenFunc(app.wearHandler.Update))
	mux.Del("/wear/:id", authMiddleware.ThenFunc(app.wearHandler.Delete))

	// Trips and events
	mux.Post("/trips", authMiddleware.ThenFunc(app.tripHandler.CreateTrip))
	mux.Get("/trips", authMiddleware.ThenFunc(app.tripHandler.ListTrips))
	mux.Get("/trips/:id/wear", authMiddleware.ThenFunc(app.tripHandler.TripWear))
	mux.Get("/trips/:id", authMiddleware.ThenFunc(app.tripHandler.GetTrip))
	mux.Put("/trips/:id", authMiddleware.ThenFunc(app.tripHandler.UpdateTrip))
	mux.Del("/trips/:id", authMiddleware.ThenFunc(app.tripHandler.DeleteTrip))
	mux.Post("/events", authMiddleware.ThenFunc(app.tripHandler.CreateEvent))
	mux.Get("/events", authMiddleware.ThenFunc(app.tripHandler.ListEvents))
	mux.Get("/events/:id", authMiddleware.ThenFunc(app.tripHandler.GetEvent))
	mux.Put("/events/:id", authMiddleware.ThenFunc(app.tripHandler.UpdateEvent))
	mux.Del("/events/:id", authMiddleware.ThenFunc(app.tripHandler.DeleteEvent))

	// Water
	mux.Post("/water", authMiddleware.ThenFunc(app.waterHandler.Record))
	mux.Get("/water", authMiddleware.ThenFunc(app.waterHandler.List))
	mux.Del("/water/:id", authMiddleware.ThenFunc(app.waterHandler.Delete))

	// Wishlist
	mux.Post("/wishlist", authMiddleware.ThenFunc(app.wishlistHandler.Create))
	mux.Get("/wishlist", authMiddleware.ThenFunc(app.wishlistHandler.List))
	mux.Post("/wishlist/:id/acquire", authMiddleware.ThenFunc(app.wishlistHandler.Acquire))
	mux.Put("/wishlist/:id", authMiddleware.ThenFunc(app.wishlistHandler.Update))
	mux.Del("/wishlist/:id", authMiddleware.ThenFunc(app.wishlistHandler.Delete))

	// Friends
	mux.Post("/friends/requests", authMiddleware.ThenFunc(app.friendHandler.Request))
	mux.Get("/friends/requests", authMiddleware.ThenFunc(app.friendHandler.Incoming))
	mux.Post("/friends/requests/:id/accept", authMiddleware.ThenFunc(app.friendHandler.Accept))
	mux.Post("/friends/requests/:id/decline", authMiddleware.ThenFunc(app.friendHandler.Decline))
	mux.Get("/friends", authMiddleware.ThenFunc(app.friendHandler.Friends))
	mux.Del("/friends/:user_id", authMiddleware.ThenFunc(app.friendHandler.Remove))

	// Posts
	mux.Post("/posts", authMiddleware.ThenFunc(app.postHandler.Create))
	mux.Get("/feed", authMiddleware.ThenFunc(app.postHandler.Feed))
	mux.Post("/posts/:id/like", authMiddleware.ThenFunc(app.postHandler.Like))
	mux.Del("/posts/:id/like", authMiddleware.ThenFunc(app.postHandler.Unlike))
	mux.Post("/posts/:id/comments", authMiddleware.ThenFunc(app.postHandler.AddComment))
	mux.Get("/posts/:id/comments", authMiddleware.ThenFunc(app.postHandler.Comments))
	mux.Get("/posts/:id", authMiddleware.ThenFunc(app.postHandler.Get))
	mux.Del("/posts/:id", authMiddleware.ThenFunc(app.postHandler.Delete))
	mux.Del("/comments/:id", authMiddleware.ThenFunc(app.postHandler.DeleteComment))

	// Messages
	mux.Post("/messages", authMiddleware.ThenFunc(app.messageHandler.Send))
	mux.Get("/messages/conversations", authMiddleware.ThenFunc(app.messageHandler.Conversations))
	mux.Post("/messages/:user_id/read", authMiddleware.ThenFunc(app.messageHandler.MarkRead))
	mux.Get("/messages/:user_id", authMiddleware.ThenFunc(app.messageHandler.Thread))

	// Forum
	mux.Post("/forum/threads", authMiddleware.ThenFunc(app.forumHandler.CreateThread))
	mux.Get("/forum/threads", authMiddleware.ThenFunc(app.forumHandler.ListThreads))
	mux.Post("/forum/threads/:id/replies", authMiddleware.ThenFunc(app.forumHandler.AddReply))
	mux.Get("/forum/threads/:id/replies", authMiddleware.ThenFunc(app.forumHandler.Replies))
	mux.Get("/forum/threads/:id", authMiddleware.ThenFunc(app.forumHandler.GetThread))
	mux.Del("/forum/threads/:id", authMiddleware.ThenFunc(app.forumHandler.DeleteThread))

	// Devices
	mux.Post("/devices", authMiddleware.ThenFunc(app.deviceHandler.Register))

	// AI
	mux.Post("/ai/warranty-ocr", aiMiddleware.ThenFunc(app.aiHandler.WarrantyOCR))
	mux.Post("/ai/sentiment", aiMiddleware.ThenFunc(app.aiHandler.Sentiment))

	c := cors.New(cors.Options{
		AllowedOrigins:   app.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})
	return c.Handler(mux)
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		app.logger.Warn("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}
