package workflow

import (
	"context"
	"errors"
	"fmt"

	bookingModel "github.com/volamoks/new-spots-sub000/models/booking"
	zoneModel "github.com/volamoks/new-spots-sub000/models/zone"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of GORM/Postgres. Zone and booking rows
// are locked with SELECT ... FOR UPDATE so two requests racing for the same
// zone are resolved by transaction isolation: the loser observes BOOKED.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetZoneByUID(ctx context.Context, uid string, forUpdate bool) (*zoneModel.Zone, error) {
	q := s.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var z zoneModel.Zone
	if err := q.Where("unique_identifier = ?", uid).First(&z).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, zoneModel.ErrZoneNotFound
		}
		return nil, fmt.Errorf("get zone by uid: %w", err)
	}
	return &z, nil
}

func (s *GormStore) GetZoneByID(ctx context.Context, id uint, forUpdate bool) (*zoneModel.Zone, error) {
	q := s.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var z zoneModel.Zone
	if err := q.First(&z, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, zoneModel.ErrZoneNotFound
		}
		return nil, fmt.Errorf("get zone by id: %w", err)
	}
	return &z, nil
}

func (s *GormStore) SaveZone(ctx context.Context, z *zoneModel.Zone) error {
	return s.db.WithContext(ctx).Save(z).Error
}

func (s *GormStore) CreateRequest(ctx context.Context, r *bookingModel.BookingRequest) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error
}

func (s *GormStore) CreateBooking(ctx context.Context, b *bookingModel.Booking) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (s *GormStore) GetBookingForUpdate(ctx context.Context, id uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingModel.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (s *GormStore) SaveBooking(ctx context.Context, b *bookingModel.Booking) error {
	// Save would cascade into the associations; only the row itself changes.
	return s.db.WithContext(ctx).Model(&bookingModel.Booking{}).
		Where("id = ?", b.ID).
		Update("status", b.Status).Error
}

func (s *GormStore) CountActiveBookings(ctx context.Context, zoneID uint) (int64, error) {
	active := []bookingModel.BookingStatus{
		bookingModel.BookingStatusPendingKM,
		bookingModel.BookingStatusKMApproved,
		bookingModel.BookingStatusDMPApproved,
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&bookingModel.Booking{}).
		Where("zone_id = ? AND status IN ?", zoneID, active).
		Count(&n).Error
	return n, err
}

func (s *GormStore) CreateStatusEvent(ctx context.Context, e *bookingModel.BookingStatusEvent) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}
