package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/volamoks/new-spots-sub000/cache"
	"github.com/volamoks/new-spots-sub000/logger"
	zoneModel "github.com/volamoks/new-spots-sub000/models/zone"
	zoneTypes "github.com/volamoks/new-spots-sub000/types/zone"
)

// ZoneStore is the registry surface the importer writes through.
type ZoneStore interface {
	FindByUID(ctx context.Context, uid string) (*zoneModel.Zone, error)
	Create(ctx context.Context, z *zoneModel.Zone) error
	Save(ctx context.Context, z *zoneModel.Zone) error
}

// ZoneImportRow is the validated intermediate record between a spreadsheet
// row and the registry. No raw cell value reaches a Zone without passing
// through this type.
type ZoneImportRow struct {
	UniqueIdentifier string
	City             string
	Market           string
	Macrozone        string
	Equipment        string
	Status           zoneModel.ZoneStatus
	Supplier         string
	Brand            string
	Category         string
}

// Spreadsheet column labels. Zone ID is optional (generated when blank),
// City and Macrozone are required.
const (
	colZoneID    = "zone id"
	colCity      = "city"
	colMarket    = "market"
	colMacrozone = "macrozone"
	colEquipment = "equipment"
	colStatus    = "status"
	colSupplier  = "supplier"
	colBrand     = "brand"
	colCategory  = "category"
)

var statusLabels = map[string]zoneModel.ZoneStatus{
	"available":   zoneModel.ZoneStatusAvailable,
	"booked":      zoneModel.ZoneStatusBooked,
	"unavailable": zoneModel.ZoneStatusUnavailable,
}

// Service runs the bulk import path of the zone registry. The externally
// supplied status is written verbatim: import wins over booking state, the
// workflow invariant is only guaranteed on the workflow path.
type Service struct {
	store ZoneStore
	cache cache.Invalidator
}

func NewService(store ZoneStore, zoneCache cache.Invalidator) *Service {
	return &Service{store: store, cache: zoneCache}
}

// ParseWorkbook reads the first sheet of an xlsx upload into validated
// rows. Row errors are collected per row, they never abort the parse.
func ParseWorkbook(r io.Reader) ([]ZoneImportRow, []zoneTypes.RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("sheet is empty")
	}

	header := map[string]int{}
	for i, label := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(label))] = i
	}
	for _, required := range []string{colCity, colMacrozone} {
		if _, ok := header[required]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, label string) string {
		idx, ok := header[label]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var parsed []ZoneImportRow
	var rowErrors []zoneTypes.RowError

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		rec := ZoneImportRow{
			UniqueIdentifier: cell(row, colZoneID),
			City:             cell(row, colCity),
			Market:           cell(row, colMarket),
			Macrozone:        cell(row, colMacrozone),
			Equipment:        cell(row, colEquipment),
			Supplier:         cell(row, colSupplier),
			Brand:            cell(row, colBrand),
			Category:         cell(row, colCategory),
		}

		if rec.City == "" || rec.Macrozone == "" {
			rowErrors = append(rowErrors, zoneTypes.RowError{Row: rowNum, Message: "city and macrozone are required"})
			continue
		}

		rawStatus := cell(row, colStatus)
		if rawStatus == "" {
			rec.Status = zoneModel.ZoneStatusAvailable
		} else {
			status, ok := statusLabels[strings.ToLower(rawStatus)]
			if !ok {
				rowErrors = append(rowErrors, zoneTypes.RowError{Row: rowNum, Message: fmt.Sprintf("unknown status label %q", rawStatus)})
				continue
			}
			rec.Status = status
		}

		parsed = append(parsed, rec)
	}

	return parsed, rowErrors, nil
}

// Import upserts the validated rows into the registry. Existing zones are
// matched by unique identifier and fully overwritten, including status.
func (s *Service) Import(ctx context.Context, rows []ZoneImportRow) (zoneTypes.ImportSummary, error) {
	var summary zoneTypes.ImportSummary

	for i, rec := range rows {
		uid := rec.UniqueIdentifier
		if uid == "" {
			uid = uuid.NewString()
		}

		existing, err := s.store.FindByUID(ctx, uid)
		switch {
		case errors.Is(err, zoneModel.ErrZoneNotFound):
			z := zoneModel.Zone{
				UniqueIdentifier: uid,
				Status:           rec.Status,
			}
			applyRow(&z, rec)
			if err := s.store.Create(ctx, &z); err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, zoneTypes.RowError{Row: i + 1, Message: err.Error()})
				continue
			}
			summary.Created++
		case err != nil:
			summary.Failed++
			summary.Errors = append(summary.Errors, zoneTypes.RowError{Row: i + 1, Message: err.Error()})
		default:
			existing.Status = rec.Status
			applyRow(existing, rec)
			if err := s.store.Save(ctx, existing); err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, zoneTypes.RowError{Row: i + 1, Message: err.Error()})
				continue
			}
			summary.Updated++
		}
	}

	if summary.Created > 0 || summary.Updated > 0 {
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx); err != nil {
				logger.Error("Failed to invalidate zone cache after import", err)
			}
		}
	}

	logger.Success(fmt.Sprintf("Zone import finished: %d created, %d updated, %d failed",
		summary.Created, summary.Updated, summary.Failed))
	return summary, nil
}

func applyRow(z *zoneModel.Zone, rec ZoneImportRow) {
	z.City = rec.City
	z.Market = rec.Market
	z.Macrozone = rec.Macrozone
	z.Equipment = rec.Equipment
	z.Supplier = optional(rec.Supplier)
	z.Brand = optional(rec.Brand)
	z.Category = optional(rec.Category)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
