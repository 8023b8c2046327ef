package query

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volamoks/new-spots-sub000/models/actor"
	bookingModel "github.com/volamoks/new-spots-sub000/models/booking"
)

func TestBuildConditions_RoleScoping(t *testing.T) {
	t.Run("supplier is pinned to own inn", func(t *testing.T) {
		conditions, err := buildConditions(actor.Actor{Role: actor.RoleSupplier, INN: "123"}, Filters{})
		require.NoError(t, err)
		require.NotEmpty(t, conditions)
		assert.Contains(t, conditions[0].sql, "supplier_inn")
		assert.Equal(t, []interface{}{"123"}, conditions[0].args)
	})

	t.Run("category manager sees own or null category", func(t *testing.T) {
		conditions, err := buildConditions(actor.Actor{Role: actor.RoleCategoryManager, Category: "Dairy"}, Filters{})
		require.NoError(t, err)
		require.Len(t, conditions, 2)
		assert.Contains(t, conditions[0].sql, "category")
		assert.Contains(t, conditions[0].sql, "IS NULL")
		assert.Equal(t, []interface{}{"Dairy"}, conditions[0].args)

		// Default scope: pending work or closed history.
		assert.Contains(t, conditions[1].sql, "EXISTS")
		assert.Equal(t, bookingModel.BookingStatusPendingKM, conditions[1].args[0])
	})

	t.Run("explicit status filter overrides the km default scope", func(t *testing.T) {
		conditions, err := buildConditions(
			actor.Actor{Role: actor.RoleCategoryManager, Category: "Dairy"},
			Filters{Statuses: []bookingModel.BookingStatus{bookingModel.BookingStatusDMPApproved}},
		)
		require.NoError(t, err)
		require.Len(t, conditions, 2)
		// The category scope stays, the default status scope is replaced by
		// the explicit existential status filter.
		assert.Contains(t, conditions[0].sql, "category")
		assert.Contains(t, conditions[1].sql, "b.status IN ?")
	})

	t.Run("department manager default scope keys on km approval", func(t *testing.T) {
		conditions, err := buildConditions(actor.Actor{Role: actor.RoleDepartmentManager}, Filters{})
		require.NoError(t, err)
		require.Len(t, conditions, 1)
		assert.Equal(t, bookingModel.BookingStatusKMApproved, conditions[0].args[0])
	})

	t.Run("admin is forbidden", func(t *testing.T) {
		_, err := buildConditions(actor.Actor{Role: actor.RoleAdmin}, Filters{})
		assert.ErrorIs(t, err, actor.ErrForbidden)
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		_, err := buildConditions(actor.Actor{Role: actor.Role("AUDITOR")}, Filters{})
		assert.ErrorIs(t, err, actor.ErrForbidden)
	})
}

func TestBuildConditions_Filters(t *testing.T) {
	act := actor.Actor{Role: actor.RoleSupplier, INN: "123"}

	t.Run("zone filters are existential", func(t *testing.T) {
		conditions, err := buildConditions(act, Filters{City: "Moscow", Macrozone: "Entrance"})
		require.NoError(t, err)

		var zoneConds []condition
		for _, c := range conditions {
			if strings.Contains(c.sql, "JOIN zones") {
				zoneConds = append(zoneConds, c)
			}
		}
		require.Len(t, zoneConds, 2)
		for _, c := range zoneConds {
			assert.Contains(t, c.sql, "EXISTS")
		}
	})

	t.Run("supplier substring filter", func(t *testing.T) {
		conditions, err := buildConditions(act, Filters{Supplier: "Acme"})
		require.NoError(t, err)
		last := conditions[len(conditions)-1]
		assert.Contains(t, last.sql, "ILIKE")
		assert.Equal(t, []interface{}{"%Acme%"}, last.args)
	})

	t.Run("date range is expanded to whole days", func(t *testing.T) {
		conditions, err := buildConditions(act, Filters{CreatedFrom: "2026-08-01", CreatedTo: "2026-08-27"})
		require.NoError(t, err)
		require.Len(t, conditions, 3)

		from, ok := conditions[1].args[0].(time.Time)
		require.True(t, ok)
		assert.Equal(t, 0, from.Hour())

		to, ok := conditions[2].args[0].(time.Time)
		require.True(t, ok)
		assert.Equal(t, 23, to.Hour())
		assert.Equal(t, 27, to.Day())
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		_, err := buildConditions(act, Filters{CreatedFrom: "08/01/2026"})
		assert.ErrorIs(t, err, ErrBadDateFilter)
	})

	t.Run("request id filter", func(t *testing.T) {
		id := uint(7)
		conditions, err := buildConditions(act, Filters{RequestID: &id})
		require.NoError(t, err)
		last := conditions[len(conditions)-1]
		assert.Contains(t, last.sql, "booking_requests.id = ?")
		assert.Equal(t, []interface{}{uint(7)}, last.args)
	})
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, defaultPageSize},
		{-3, -1, 1, defaultPageSize},
		{2, 50, 2, 50},
		{1, 1000, 1, maxPageSize},
	}
	for _, tt := range tests {
		page, size := normalizePagination(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantSize, size)
	}
}
