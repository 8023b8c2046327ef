package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"github.com/volamoks/new-spots-sub000/models/actor"
	bookingModel "github.com/volamoks/new-spots-sub000/models/booking"
	bookingTypes "github.com/volamoks/new-spots-sub000/types/booking"

	"gorm.io/gorm"
)

var ErrBadDateFilter = errors.New("date filter must use the YYYY-MM-DD format")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Filters are the ad-hoc criteria of GET /bookings. Filters that target
// booking or zone attributes use existential semantics: a request matches
// when at least one of its child bookings satisfies the sub-filter.
type Filters struct {
	RequestID *uint
	Statuses  []bookingModel.BookingStatus

	Supplier    string // substring match on the zone's supplier name
	CreatedFrom string // YYYY-MM-DD, inclusive
	CreatedTo   string // YYYY-MM-DD, inclusive

	City      string
	Market    string
	Macrozone string
	Equipment string
	Search    string

	Page     int
	PageSize int
}

// Service retrieves booking aggregates scoped to the acting role.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

const existsBookingWithStatus = `EXISTS (SELECT 1 FROM bookings b WHERE b.request_id = booking_requests.id AND b.status = ?)`

const existsAnyBooking = `EXISTS (SELECT 1 FROM bookings b WHERE b.request_id = booking_requests.id)`

// A request is closed when it has bookings and none of them can still move
// through the pipeline.
const noOpenBooking = `NOT EXISTS (SELECT 1 FROM bookings b WHERE b.request_id = booking_requests.id AND b.status IN ?)`

// GetAllBookings returns one page of booking requests visible to the actor,
// with nested bookings and zones. Count and page rows are read inside one
// transaction so they cannot disagree under concurrent writes.
func (s *Service) GetAllBookings(ctx context.Context, act actor.Actor, f Filters) (*bookingTypes.PagedBookingRequests, error) {
	conditions, err := buildConditions(act, f)
	if err != nil {
		return nil, err
	}

	page, pageSize := normalizePagination(f.Page, f.PageSize)

	result := &bookingTypes.PagedBookingRequests{
		Page:     page,
		PageSize: pageSize,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counted := applyConditions(tx.Model(&bookingModel.BookingRequest{}), conditions)
		if err := counted.Count(&result.Total).Error; err != nil {
			return fmt.Errorf("count booking requests: %w", err)
		}

		var requests []bookingModel.BookingRequest
		paged := applyConditions(tx.Model(&bookingModel.BookingRequest{}), conditions).
			Preload("Bookings").
			Preload("Bookings.Zone").
			Order("booking_requests.created_at DESC, booking_requests.id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize)
		if err := paged.Find(&requests).Error; err != nil {
			return fmt.Errorf("load booking requests: %w", err)
		}

		result.Items = make([]bookingTypes.BookingRequestResponse, 0, len(requests))
		for _, r := range requests {
			result.Items = append(result.Items, bookingTypes.NewBookingRequestResponse(r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// condition is one AND-combined WHERE fragment.
type condition struct {
	sql  string
	args []interface{}
}

func applyConditions(q *gorm.DB, conditions []condition) *gorm.DB {
	for _, c := range conditions {
		q = q.Where(c.sql, c.args...)
	}
	return q
}

// buildConditions composes the role scope with the ad-hoc filters. The role
// switch is exhaustive on purpose: an unhandled role is Forbidden, never a
// silently widened result set.
func buildConditions(act actor.Actor, f Filters) ([]condition, error) {
	var conditions []condition

	openStatuses := []bookingModel.BookingStatus{
		bookingModel.BookingStatusPendingKM,
		bookingModel.BookingStatusKMApproved,
	}

	switch act.Role {
	case actor.RoleSupplier:
		conditions = append(conditions, condition{
			sql:  "booking_requests.supplier_inn = ?",
			args: []interface{}{act.INN},
		})
	case actor.RoleCategoryManager:
		conditions = append(conditions, condition{
			sql:  "(booking_requests.category = ? OR booking_requests.category IS NULL)",
			args: []interface{}{act.Category},
		})
		if len(f.Statuses) == 0 {
			// Default view: requests awaiting KM action plus closed history.
			conditions = append(conditions, condition{
				sql:  fmt.Sprintf("(%s OR (%s AND %s))", existsBookingWithStatus, existsAnyBooking, noOpenBooking),
				args: []interface{}{bookingModel.BookingStatusPendingKM, openStatuses},
			})
		}
	case actor.RoleDepartmentManager:
		if len(f.Statuses) == 0 {
			conditions = append(conditions, condition{
				sql:  fmt.Sprintf("(%s OR (%s AND %s))", existsBookingWithStatus, existsAnyBooking, noOpenBooking),
				args: []interface{}{bookingModel.BookingStatusKMApproved, openStatuses},
			})
		}
	default:
		return nil, actor.ErrForbidden
	}

	if f.RequestID != nil {
		conditions = append(conditions, condition{
			sql:  "booking_requests.id = ?",
			args: []interface{}{*f.RequestID},
		})
	}

	if len(f.Statuses) > 0 {
		conditions = append(conditions, condition{
			sql:  "EXISTS (SELECT 1 FROM bookings b WHERE b.request_id = booking_requests.id AND b.status IN ?)",
			args: []interface{}{f.Statuses},
		})
	}

	if f.Supplier != "" {
		conditions = append(conditions, condition{
			sql: `EXISTS (SELECT 1 FROM bookings b JOIN zones z ON z.id = b.zone_id
				WHERE b.request_id = booking_requests.id AND z.supplier ILIKE ?)`,
			args: []interface{}{"%" + f.Supplier + "%"},
		})
	}

	if f.CreatedFrom != "" {
		from, err := parseFilterDate(f.CreatedFrom)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, condition{
			sql:  "booking_requests.created_at >= ?",
			args: []interface{}{now.New(from).BeginningOfDay()},
		})
	}
	if f.CreatedTo != "" {
		to, err := parseFilterDate(f.CreatedTo)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, condition{
			sql:  "booking_requests.created_at <= ?",
			args: []interface{}{now.New(to).EndOfDay()},
		})
	}

	zoneFields := []struct {
		column string
		value  string
	}{
		{"z.city", f.City},
		{"z.market", f.Market},
		{"z.macrozone", f.Macrozone},
		{"z.equipment", f.Equipment},
	}
	for _, zf := range zoneFields {
		column, value := zf.column, zf.value
		if value == "" {
			continue
		}
		conditions = append(conditions, condition{
			sql: fmt.Sprintf(`EXISTS (SELECT 1 FROM bookings b JOIN zones z ON z.id = b.zone_id
				WHERE b.request_id = booking_requests.id AND %s = ?)`, column),
			args: []interface{}{value},
		})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conditions = append(conditions, condition{
			sql: `EXISTS (SELECT 1 FROM bookings b JOIN zones z ON z.id = b.zone_id
				WHERE b.request_id = booking_requests.id
				AND (z.unique_identifier ILIKE ? OR z.city ILIKE ? OR z.macrozone ILIKE ? OR z.supplier ILIKE ? OR z.brand ILIKE ?))`,
			args: []interface{}{pattern, pattern, pattern, pattern, pattern},
		})
	}

	return conditions, nil
}

func parseFilterDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDateFilter, value)
	}
	return t, nil
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
