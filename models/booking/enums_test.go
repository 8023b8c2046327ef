package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volamoks/new-spots-sub000/models/actor"
)

func TestDeriveRequestStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []BookingStatus
		want     RequestDisplayStatus
	}{
		{
			name:     "no bookings",
			statuses: nil,
			want:     RequestDisplayEmpty,
		},
		{
			name:     "single pending booking",
			statuses: []BookingStatus{BookingStatusPendingKM},
			want:     RequestDisplayNew,
		},
		{
			name:     "pending beats approved",
			statuses: []BookingStatus{BookingStatusPendingKM, BookingStatusKMApproved},
			want:     RequestDisplayNew,
		},
		{
			name:     "km processed mix",
			statuses: []BookingStatus{BookingStatusKMApproved, BookingStatusKMRejected},
			want:     RequestDisplayProcessedKM,
		},
		{
			name:     "all km approved",
			statuses: []BookingStatus{BookingStatusKMApproved, BookingStatusKMApproved},
			want:     RequestDisplayProcessedKM,
		},
		{
			name:     "single dmp approved",
			statuses: []BookingStatus{BookingStatusDMPApproved},
			want:     RequestDisplayClosed,
		},
		{
			name:     "all terminal",
			statuses: []BookingStatus{BookingStatusKMRejected, BookingStatusDMPApproved, BookingStatusDMPRejected},
			want:     RequestDisplayClosed,
		},
		{
			name:     "dmp approved next to km approved falls through",
			statuses: []BookingStatus{BookingStatusKMApproved, BookingStatusDMPApproved},
			want:     RequestDisplayUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRequestStatus(tt.statuses))
		})
	}
}

func TestDisplayStatusRecomputedFromChildren(t *testing.T) {
	req := BookingRequest{
		Bookings: []Booking{
			{Status: BookingStatusPendingKM},
			{Status: BookingStatusKMApproved},
		},
	}
	assert.Equal(t, RequestDisplayNew, req.DisplayStatus())

	req.Bookings[0].Status = BookingStatusKMRejected
	assert.Equal(t, RequestDisplayProcessedKM, req.DisplayStatus())
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		role    actor.Role
		allowed bool
	}{
		{"km approves pending", BookingStatusPendingKM, BookingStatusKMApproved, actor.RoleCategoryManager, true},
		{"km rejects pending", BookingStatusPendingKM, BookingStatusKMRejected, actor.RoleCategoryManager, true},
		{"dmp approves km approved", BookingStatusKMApproved, BookingStatusDMPApproved, actor.RoleDepartmentManager, true},
		{"dmp rejects km approved", BookingStatusKMApproved, BookingStatusDMPRejected, actor.RoleDepartmentManager, true},
		{"dmp cannot act on pending", BookingStatusPendingKM, BookingStatusKMApproved, actor.RoleDepartmentManager, false},
		{"km cannot perform dmp approval", BookingStatusKMApproved, BookingStatusDMPApproved, actor.RoleCategoryManager, false},
		{"km cannot re-approve", BookingStatusKMApproved, BookingStatusKMApproved, actor.RoleCategoryManager, false},
		{"supplier cannot approve", BookingStatusPendingKM, BookingStatusKMApproved, actor.RoleSupplier, false},
		{"km rejection is terminal", BookingStatusKMRejected, BookingStatusKMApproved, actor.RoleCategoryManager, false},
		{"dmp approval is terminal", BookingStatusDMPApproved, BookingStatusDMPRejected, actor.RoleDepartmentManager, false},
		{"dmp rejection is terminal", BookingStatusDMPRejected, BookingStatusDMPApproved, actor.RoleDepartmentManager, false},
		{"no skipping km stage", BookingStatusPendingKM, BookingStatusDMPApproved, actor.RoleDepartmentManager, false},
		{"unknown target status", BookingStatusPendingKM, BookingStatus("BOGUS"), actor.RoleCategoryManager, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to, tt.role)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestInitialStatusFor(t *testing.T) {
	assert.Equal(t, BookingStatusKMApproved, InitialStatusFor(actor.RoleCategoryManager))
	assert.Equal(t, BookingStatusPendingKM, InitialStatusFor(actor.RoleSupplier))
}

func TestOccupiesZone(t *testing.T) {
	assert.True(t, BookingStatusPendingKM.OccupiesZone())
	assert.True(t, BookingStatusKMApproved.OccupiesZone())
	assert.True(t, BookingStatusDMPApproved.OccupiesZone())
	assert.False(t, BookingStatusKMRejected.OccupiesZone())
	assert.False(t, BookingStatusDMPRejected.OccupiesZone())
}
