package booking

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/volamoks/new-spots-sub000/logger"
	"github.com/volamoks/new-spots-sub000/middleware"
	"github.com/volamoks/new-spots-sub000/models/actor"
	bookingModel "github.com/volamoks/new-spots-sub000/models/booking"
	"github.com/volamoks/new-spots-sub000/services/query"
	"github.com/volamoks/new-spots-sub000/services/workflow"
	"github.com/volamoks/new-spots-sub000/types"
	bookingTypes "github.com/volamoks/new-spots-sub000/types/booking"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	Workflow *workflow.Service
	Query    *query.Service
	Logger   *logger.AsyncLogger
}

// NewBookingController creates a new booking controller
func NewBookingController(wf *workflow.Service, qs *query.Service, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		Workflow: wf,
		Query:    qs,
		Logger:   asyncLogger,
	}
}

// Store creates a booking request for the submitted zones
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	act, ok := middleware.ActorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user session",
		})
	}

	out, err := bc.Workflow.CreateBookingRequest(c.UserContext(), act, workflow.CreateInput{
		ZoneIDs:     req.ZoneIDs,
		BrandID:     req.BrandID,
		SupplierINN: req.SupplierINN,
	})
	if err != nil {
		return bc.respondError(c, err, "Failed to create booking request")
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking request created successfully",
		Data: bookingTypes.CreateResult{
			Request:  bookingTypes.NewBookingRequestResponse(out.Request),
			Bookings: out.Bookings,
			Skipped:  out.Skipped,
		},
	})
}

// Index returns role-filtered booking requests with nested bookings and zones
func (bc *BookingController) Index(c *fiber.Ctx) error {
	act, ok := middleware.ActorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user session",
		})
	}

	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	page, err := bc.Query.GetAllBookings(c.UserContext(), act, filters)
	if err != nil {
		return bc.respondError(c, err, "Failed to load booking requests")
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking requests retrieved successfully",
		Data:    page,
	})
}

// Transition applies one approval state machine edge to a booking
func (bc *BookingController) Transition(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	var req bookingTypes.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	act, ok := middleware.ActorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user session",
		})
	}

	// The body may carry a role for UI compatibility; the trusted session
	// role always wins.
	next := bookingModel.BookingStatus(req.Status)

	updated, err := bc.Workflow.TransitionBookingStatus(c.UserContext(), uint(bookingID), next, act)
	if err != nil {
		return bc.respondError(c, err, "Failed to update booking status")
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking status updated successfully",
		Data:    updated,
	})
}

// respondError maps workflow/query errors onto the HTTP taxonomy. Anything
// unrecognized is a 500 with a generic message; the detail stays in the log.
func (bc *BookingController) respondError(c *fiber.Ctx, err error, logMsg string) error {
	switch {
	case workflow.IsValidation(err) || errors.Is(err, query.ErrBadDateFilter):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, actor.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, bookingModel.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, bookingModel.ErrBookingNotFound), errors.Is(err, bookingModel.ErrRequestNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: err.Error(),
		})
	default:
		logger.Error(logMsg, err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func parseFilters(c *fiber.Ctx) (query.Filters, error) {
	f := query.Filters{
		Supplier:    c.Query("supplier"),
		CreatedFrom: c.Query("from"),
		CreatedTo:   c.Query("to"),
		City:        c.Query("city"),
		Market:      c.Query("market"),
		Macrozone:   c.Query("macrozone"),
		Equipment:   c.Query("equipment"),
		Search:      c.Query("search"),
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("pageSize", 0),
	}

	if raw := c.Query("requestId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, errors.New("requestId must be numeric")
		}
		requestID := uint(id)
		f.RequestID = &requestID
	}

	if raw := c.Query("status"); raw != "" {
		for _, s := range splitAndTrim(raw) {
			status := bookingModel.BookingStatus(s)
			if !status.IsValid() {
				return f, errors.New("unknown booking status " + s)
			}
			f.Statuses = append(f.Statuses, status)
		}
	}

	return f, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
