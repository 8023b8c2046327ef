package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/volamoks/new-spots-sub000/cache"
	"github.com/volamoks/new-spots-sub000/logger"
	"github.com/volamoks/new-spots-sub000/models/actor"
	bookingModel "github.com/volamoks/new-spots-sub000/models/booking"
	zoneModel "github.com/volamoks/new-spots-sub000/models/zone"
	"github.com/volamoks/new-spots-sub000/types"
	bookingTypes "github.com/volamoks/new-spots-sub000/types/booking"
)

// Store is the persistence surface the workflow engine runs on. WithTx
// hands the callback a store bound to one transaction; every mutation made
// through that store commits or rolls back together.
type Store interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	GetZoneByUID(ctx context.Context, uid string, forUpdate bool) (*zoneModel.Zone, error)
	GetZoneByID(ctx context.Context, id uint, forUpdate bool) (*zoneModel.Zone, error)
	SaveZone(ctx context.Context, z *zoneModel.Zone) error

	CreateRequest(ctx context.Context, r *bookingModel.BookingRequest) error
	CreateBooking(ctx context.Context, b *bookingModel.Booking) error
	GetBookingForUpdate(ctx context.Context, id uint) (*bookingModel.Booking, error)
	SaveBooking(ctx context.Context, b *bookingModel.Booking) error
	CountActiveBookings(ctx context.Context, zoneID uint) (int64, error)
	CreateStatusEvent(ctx context.Context, e *bookingModel.BookingStatusEvent) error
}

// AuditSink receives workflow audit entries. Satisfied by logger.AsyncLogger.
type AuditSink interface {
	Log(entry types.AuditEntry)
}

// Service is the booking workflow engine: it creates booking aggregates,
// applies role-gated transitions and keeps zone status in sync with the set
// of active bookings on the workflow path.
type Service struct {
	store Store
	cache cache.Invalidator
	audit AuditSink
}

func NewService(store Store, zoneCache cache.Invalidator, audit AuditSink) *Service {
	return &Service{
		store: store,
		cache: zoneCache,
		audit: audit,
	}
}

// CreateInput carries the validated body of a booking creation call.
type CreateInput struct {
	ZoneIDs     []string
	BrandID     string
	SupplierINN string
}

// CreateOutput is the partial-success result of one batch booking.
type CreateOutput struct {
	Request  bookingModel.BookingRequest
	Bookings []bookingModel.Booking
	Skipped  []bookingTypes.SkippedZone
}

// CreateBookingRequest books every submitted zone that is still AVAILABLE.
// Zones that are missing or taken are skipped and reported, they never fail
// the batch. All succeeding zones commit in one transaction.
func (s *Service) CreateBookingRequest(ctx context.Context, act actor.Actor, in CreateInput) (*CreateOutput, error) {
	switch act.Role {
	case actor.RoleSupplier, actor.RoleCategoryManager:
	case actor.RoleDepartmentManager, actor.RoleAdmin:
		return nil, actor.ErrForbidden
	default:
		return nil, actor.ErrForbidden
	}

	if len(in.ZoneIDs) == 0 {
		return nil, ErrEmptyZoneList
	}
	if in.BrandID == "" {
		return nil, ErrBrandRequired
	}

	supplierINN := act.INN
	if act.Role == actor.RoleCategoryManager {
		// A category manager books on behalf of a supplier.
		if in.SupplierINN == "" {
			return nil, ErrSupplierRequired
		}
		supplierINN = in.SupplierINN
	}

	initialStatus := bookingModel.InitialStatusFor(act.Role)

	out := &CreateOutput{}
	err := s.store.WithTx(ctx, func(tx Store) error {
		req := bookingModel.BookingRequest{
			RequestorID: act.ID,
			BrandID:     in.BrandID,
			Status:      bookingModel.RequestStatusNew,
		}
		if supplierINN != "" {
			req.SupplierINN = &supplierINN
		}
		if act.Category != "" {
			category := act.Category
			req.Category = &category
		}
		if err := tx.CreateRequest(ctx, &req); err != nil {
			return fmt.Errorf("create booking request: %w", err)
		}

		var bookings []bookingModel.Booking
		var skipped []bookingTypes.SkippedZone

		for _, zoneUID := range in.ZoneIDs {
			z, err := tx.GetZoneByUID(ctx, zoneUID, true)
			if errors.Is(err, zoneModel.ErrZoneNotFound) {
				logger.Warning(fmt.Sprintf("Zone %s not found, skipping from booking request", zoneUID))
				skipped = append(skipped, bookingTypes.SkippedZone{ZoneID: zoneUID, Reason: zoneModel.ErrZoneNotFound.Error()})
				continue
			}
			if err != nil {
				return fmt.Errorf("look up zone %s: %w", zoneUID, err)
			}

			if !z.Status.IsBookable() {
				logger.Warning(fmt.Sprintf("Zone %s is %s, skipping from booking request", zoneUID, z.Status))
				skipped = append(skipped, bookingTypes.SkippedZone{ZoneID: zoneUID, Reason: zoneModel.ErrZoneUnavailable.Error()})
				continue
			}

			brandID := in.BrandID
			b := bookingModel.Booking{
				RequestID: req.ID,
				ZoneID:    z.ID,
				BrandID:   &brandID,
				Status:    initialStatus,
			}
			if err := tx.CreateBooking(ctx, &b); err != nil {
				return fmt.Errorf("create booking for zone %s: %w", zoneUID, err)
			}

			event := bookingModel.BookingStatusEvent{
				BookingID: b.ID,
				ToStatus:  initialStatus,
				ActorID:   act.ID,
				ActorRole: act.Role,
			}
			if err := tx.CreateStatusEvent(ctx, &event); err != nil {
				return fmt.Errorf("record status event: %w", err)
			}

			z.Status = zoneModel.ZoneStatusBooked
			z.Supplier = req.SupplierINN
			z.Brand = &brandID
			if err := tx.SaveZone(ctx, z); err != nil {
				return fmt.Errorf("update zone %s: %w", zoneUID, err)
			}

			b.Zone = *z
			bookings = append(bookings, b)
		}

		req.Bookings = bookings
		out.Request = req
		out.Bookings = bookings
		out.Skipped = skipped
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(out.Bookings) > 0 {
		s.invalidateZoneCache(ctx)
	}
	s.auditEntry("booking_request.created", "booking_request", strconv.FormatUint(uint64(out.Request.ID), 10), act,
		fmt.Sprintf("%d of %d zones booked", len(out.Bookings), len(in.ZoneIDs)))

	logger.Success(fmt.Sprintf("Booking request %d created with %d bookings (%d zones skipped)",
		out.Request.ID, len(out.Bookings), len(out.Skipped)))
	return out, nil
}

// TransitionBookingStatus applies one edge of the approval state machine to
// a single booking. A rejected booking that was the zone's last active
// claim releases the zone back to AVAILABLE.
func (s *Service) TransitionBookingStatus(ctx context.Context, bookingID uint, next bookingModel.BookingStatus, act actor.Actor) (*bookingModel.Booking, error) {
	var result *bookingModel.Booking
	zoneReleased := false

	err := s.store.WithTx(ctx, func(tx Store) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if err := bookingModel.ValidateTransition(b.Status, next, act.Role); err != nil {
			return err
		}

		from := b.Status
		b.Status = next
		if err := tx.SaveBooking(ctx, b); err != nil {
			return fmt.Errorf("save booking %d: %w", bookingID, err)
		}

		event := bookingModel.BookingStatusEvent{
			BookingID:  b.ID,
			FromStatus: &from,
			ToStatus:   next,
			ActorID:    act.ID,
			ActorRole:  act.Role,
		}
		if err := tx.CreateStatusEvent(ctx, &event); err != nil {
			return fmt.Errorf("record status event: %w", err)
		}

		if next.IsRejected() {
			active, err := tx.CountActiveBookings(ctx, b.ZoneID)
			if err != nil {
				return fmt.Errorf("count active bookings for zone %d: %w", b.ZoneID, err)
			}
			if active == 0 {
				z, err := tx.GetZoneByID(ctx, b.ZoneID, true)
				if err != nil {
					return fmt.Errorf("look up zone %d: %w", b.ZoneID, err)
				}
				z.Status = zoneModel.ZoneStatusAvailable
				z.Supplier = nil
				z.Brand = nil
				if err := tx.SaveZone(ctx, z); err != nil {
					return fmt.Errorf("release zone %d: %w", b.ZoneID, err)
				}
				zoneReleased = true
			}
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if zoneReleased {
		s.invalidateZoneCache(ctx)
	}
	s.auditEntry("booking.transitioned", "booking", strconv.FormatUint(uint64(bookingID), 10), act, string(next))

	return result, nil
}

// invalidateZoneCache is fire-and-forget: a failed invalidation leaves a
// bounded staleness window, it must never abort the business transaction.
func (s *Service) invalidateZoneCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Error("Failed to invalidate zone cache", err)
	}
}

func (s *Service) auditEntry(action, entity, entityID string, act actor.Actor, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Log(types.AuditEntry{
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		ActorID:   act.ID,
		ActorRole: act.Role.String(),
		Detail:    detail,
		CreatedAt: time.Now(),
	})
}
