package zone

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/volamoks/new-spots-sub000/cache"
	"github.com/volamoks/new-spots-sub000/logger"
	"github.com/volamoks/new-spots-sub000/middleware"
	zoneModel "github.com/volamoks/new-spots-sub000/models/zone"
	"github.com/volamoks/new-spots-sub000/services/importer"
	"github.com/volamoks/new-spots-sub000/types"
	zoneTypes "github.com/volamoks/new-spots-sub000/types/zone"
)

// ZoneController handles zone registry HTTP requests
type ZoneController struct {
	DB       *gorm.DB
	Cache    *cache.ZoneCache
	Importer *importer.Service
	Logger   *logger.AsyncLogger
}

// NewZoneController creates a new zone controller
func NewZoneController(db *gorm.DB, zoneCache *cache.ZoneCache, imp *importer.Service, asyncLogger *logger.AsyncLogger) *ZoneController {
	return &ZoneController{
		DB:       db,
		Cache:    zoneCache,
		Importer: imp,
		Logger:   asyncLogger,
	}
}

// Index returns the zone listing, served from the Redis cache when the
// cached entry belongs to the current zone version.
func (zc *ZoneController) Index(c *fiber.Ctx) error {
	filters := map[string]string{
		"city":      c.Query("city"),
		"market":    c.Query("market"),
		"macrozone": c.Query("macrozone"),
		"equipment": c.Query("equipment"),
		"status":    c.Query("status"),
	}
	signature := fmt.Sprintf("city=%s&market=%s&macrozone=%s&equipment=%s&status=%s",
		filters["city"], filters["market"], filters["macrozone"], filters["equipment"], filters["status"])

	if zc.Cache != nil {
		if payload, ok := zc.Cache.Get(c.UserContext(), signature); ok {
			return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
				Status:  fiber.StatusOK,
				Message: "Zones retrieved successfully",
				Data:    json.RawMessage(payload),
			})
		}
	}

	q := zc.DB.WithContext(c.UserContext()).Model(&zoneModel.Zone{})
	for column, value := range map[string]string{
		"city":      filters["city"],
		"market":    filters["market"],
		"macrozone": filters["macrozone"],
		"equipment": filters["equipment"],
	} {
		if value != "" {
			q = q.Where(column+" = ?", value)
		}
	}
	if status := filters["status"]; status != "" {
		zs := zoneModel.ZoneStatus(status)
		if !zs.IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Unknown zone status " + status,
			})
		}
		q = q.Where("status = ?", zs)
	}

	var zones []zoneModel.Zone
	if err := q.Order("unique_identifier").Find(&zones).Error; err != nil {
		logger.Error("Failed to load zones", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	if zc.Cache != nil {
		if payload, err := json.Marshal(zones); err == nil {
			if err := zc.Cache.Set(c.UserContext(), signature, string(payload)); err != nil {
				logger.Error("Failed to cache zone listing", err)
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Zones retrieved successfully",
		Data:    zones,
	})
}

// UpdateStatus is the administrative override path: it forces a zone's
// status regardless of booking state. Used for taking zones out of rotation.
func (zc *ZoneController) UpdateStatus(c *fiber.Ctx) error {
	zoneID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid zone id",
		})
	}

	var req zoneTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status := zoneModel.ZoneStatus(req.Status)
	if !status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Unknown zone status " + req.Status,
		})
	}

	var z zoneModel.Zone
	if err := zc.DB.WithContext(c.UserContext()).First(&z, uint(zoneID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: zoneModel.ErrZoneNotFound.Error(),
			})
		}
		logger.Error("Failed to find zone", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	z.Status = status
	if err := zc.DB.WithContext(c.UserContext()).Save(&z).Error; err != nil {
		logger.Error("Failed to update zone status", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	zc.invalidateCache(c)
	zc.auditOverride(c, &z)

	logger.Success(fmt.Sprintf("Zone %s status overridden to %s", z.UniqueIdentifier, z.Status))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Zone status updated successfully",
		Data:    z,
	})
}

// Import accepts an xlsx upload and runs the bulk import path.
func (zc *ZoneController) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "An xlsx file upload is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
	defer file.Close()

	rows, rowErrors, err := importer.ParseWorkbook(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	summary, err := zc.Importer.Import(c.UserContext(), rows)
	if err != nil {
		logger.Error("Zone import failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	summary.Errors = append(rowErrors, summary.Errors...)
	summary.Failed += len(rowErrors)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Zone import finished",
		Data:    summary,
	})
}

func (zc *ZoneController) invalidateCache(c *fiber.Ctx) {
	if zc.Cache == nil {
		return
	}
	if err := zc.Cache.Invalidate(c.UserContext()); err != nil {
		logger.Error("Failed to invalidate zone cache", err)
	}
}

func (zc *ZoneController) auditOverride(c *fiber.Ctx, z *zoneModel.Zone) {
	if zc.Logger == nil {
		return
	}
	act, _ := middleware.ActorFromCtx(c)
	zc.Logger.Log(types.AuditEntry{
		Action:    "zone.status_overridden",
		Entity:    "zone",
		EntityID:  z.UniqueIdentifier,
		ActorID:   act.ID,
		ActorRole: act.Role.String(),
		Detail:    string(z.Status),
		CreatedAt: time.Now(),
	})
}
