package importer

import (
	"context"
	"errors"
	"fmt"

	zoneModel "github.com/volamoks/new-spots-sub000/models/zone"

	"gorm.io/gorm"
)

// GormZoneStore implements ZoneStore on GORM/Postgres.
type GormZoneStore struct {
	db *gorm.DB
}

func NewGormZoneStore(db *gorm.DB) *GormZoneStore {
	return &GormZoneStore{db: db}
}

func (s *GormZoneStore) FindByUID(ctx context.Context, uid string) (*zoneModel.Zone, error) {
	var z zoneModel.Zone
	if err := s.db.WithContext(ctx).Where("unique_identifier = ?", uid).First(&z).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, zoneModel.ErrZoneNotFound
		}
		return nil, fmt.Errorf("find zone by uid: %w", err)
	}
	return &z, nil
}

func (s *GormZoneStore) Create(ctx context.Context, z *zoneModel.Zone) error {
	return s.db.WithContext(ctx).Create(z).Error
}

func (s *GormZoneStore) Save(ctx context.Context, z *zoneModel.Zone) error {
	return s.db.WithContext(ctx).Save(z).Error
}
