package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/volamoks/new-spots-sub000/cache"
	bookingController "github.com/volamoks/new-spots-sub000/controllers/booking"
	zoneController "github.com/volamoks/new-spots-sub000/controllers/zone"
	"github.com/volamoks/new-spots-sub000/logger"
	"github.com/volamoks/new-spots-sub000/middleware"
	"github.com/volamoks/new-spots-sub000/models/actor"
	"github.com/volamoks/new-spots-sub000/services/importer"
	"github.com/volamoks/new-spots-sub000/services/query"
	"github.com/volamoks/new-spots-sub000/services/workflow"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client) {
	zoneCache := cache.NewZoneCache(rdb)
	asyncLogger := logger.NewAsyncLogger(db)

	workflowService := workflow.NewService(workflow.NewGormStore(db), zoneCache, asyncLogger)
	queryService := query.NewService(db)
	importService := importer.NewService(importer.NewGormZoneStore(db), zoneCache)

	bookings := bookingController.NewBookingController(workflowService, queryService, asyncLogger)
	zones := zoneController.NewZoneController(db, zoneCache, importService, asyncLogger)

	// Start the async audit logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	app.Post("/bookings", middleware.IsAuthenticated(), bookings.Store)
	app.Get("/bookings", middleware.IsAuthenticated(), bookings.Index)
	app.Patch("/bookings/:id", middleware.IsAuthenticated(), bookings.Transition)

	/*=============================================================================
	| Zone Routes
	===============================================================================*/
	zoneGroup := app.Group("/zones", middleware.IsAuthenticated())
	zoneGroup.Get("/", zones.Index)
	zoneGroup.Patch("/:id/status", middleware.RequireRoles(actor.RoleAdmin), zones.UpdateStatus)
	zoneGroup.Post("/import", middleware.RequireRoles(actor.RoleAdmin), zones.Import)
}
