package importer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	zoneModel "github.com/volamoks/new-spots-sub000/models/zone"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"Zone ID", "City", "Market", "Macrozone", "Equipment", "Status", "Supplier", "Brand", "Category"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbook(t *testing.T) {
	r := buildWorkbook(t, [][]interface{}{
		{"Z1", "Moscow", "Central", "Entrance", "Shelf", "Available", "Acme", "BrandX", "Dairy"},
		{"Z2", "Kazan", "", "Checkout", "", "booked", "", "", ""},
		{"", "Tver", "", "Aisle", "", "", "", "", ""},       // no uid, no status
		{"Z4", "", "", "Aisle", "", "Available", "", "", ""}, // missing city
		{"Z5", "Omsk", "", "Aisle", "", "Archived", "", "", ""}, // bad status label
	})

	rows, rowErrors, err := ParseWorkbook(r)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "Z1", rows[0].UniqueIdentifier)
	assert.Equal(t, zoneModel.ZoneStatusAvailable, rows[0].Status)
	assert.Equal(t, "Acme", rows[0].Supplier)

	// Status labels are matched case-insensitively.
	assert.Equal(t, zoneModel.ZoneStatusBooked, rows[1].Status)

	// A blank status defaults to AVAILABLE, a blank uid stays blank until import.
	assert.Equal(t, "", rows[2].UniqueIdentifier)
	assert.Equal(t, zoneModel.ZoneStatusAvailable, rows[2].Status)

	require.Len(t, rowErrors, 2)
	assert.Equal(t, 5, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Message, "required")
	assert.Equal(t, 6, rowErrors[1].Row)
	assert.Contains(t, rowErrors[1].Message, "Archived")
}

func TestParseWorkbook_MissingRequiredColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"Zone ID", "Market"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, _, err = ParseWorkbook(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city")
}

type fakeZoneStore struct {
	zones map[string]*zoneModel.Zone
}

func newFakeZoneStore() *fakeZoneStore {
	return &fakeZoneStore{zones: map[string]*zoneModel.Zone{}}
}

func (s *fakeZoneStore) FindByUID(ctx context.Context, uid string) (*zoneModel.Zone, error) {
	z, ok := s.zones[uid]
	if !ok {
		return nil, zoneModel.ErrZoneNotFound
	}
	copied := *z
	return &copied, nil
}

func (s *fakeZoneStore) Create(ctx context.Context, z *zoneModel.Zone) error {
	copied := *z
	s.zones[z.UniqueIdentifier] = &copied
	return nil
}

func (s *fakeZoneStore) Save(ctx context.Context, z *zoneModel.Zone) error {
	copied := *z
	s.zones[z.UniqueIdentifier] = &copied
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

func TestImport_UpsertAndStatusAuthority(t *testing.T) {
	store := newFakeZoneStore()
	// An existing zone currently BOOKED by the workflow.
	store.zones["Z1"] = &zoneModel.Zone{ID: 1, UniqueIdentifier: "Z1", City: "Moscow", Macrozone: "Entrance", Status: zoneModel.ZoneStatusBooked}

	inv := &countingInvalidator{}
	svc := NewService(store, inv)

	summary, err := svc.Import(context.Background(), []ZoneImportRow{
		{UniqueIdentifier: "Z1", City: "Moscow", Macrozone: "Entrance", Status: zoneModel.ZoneStatusAvailable},
		{UniqueIdentifier: "Z2", City: "Kazan", Macrozone: "Checkout", Status: zoneModel.ZoneStatusUnavailable, Supplier: "Acme"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Failed)

	// The imported status wins even against a workflow-held zone.
	assert.Equal(t, zoneModel.ZoneStatusAvailable, store.zones["Z1"].Status)

	z2 := store.zones["Z2"]
	require.NotNil(t, z2)
	assert.Equal(t, zoneModel.ZoneStatusUnavailable, z2.Status)
	require.NotNil(t, z2.Supplier)
	assert.Equal(t, "Acme", *z2.Supplier)

	assert.Equal(t, 1, inv.calls)
}

func TestImport_GeneratesIdentifierWhenBlank(t *testing.T) {
	store := newFakeZoneStore()
	svc := NewService(store, nil)

	summary, err := svc.Import(context.Background(), []ZoneImportRow{
		{City: "Tver", Macrozone: "Aisle", Status: zoneModel.ZoneStatusAvailable},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	require.Len(t, store.zones, 1)
	for uid := range store.zones {
		assert.NotEmpty(t, uid)
	}
}
