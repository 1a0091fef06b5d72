package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/service"
)

func TestValidateRenewalDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)

	var tests = []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{
			name: "today is allowed",
			date: now,
		},
		{
			name: "today with earlier clock time is still today",
			date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "two weeks out",
			date: now.AddDate(0, 0, 14),
		},
		{
			name: "exactly four weeks out",
			date: now.AddDate(0, 0, 28),
		},
		{
			name:    "yesterday",
			date:    now.AddDate(0, 0, -1),
			wantErr: errs.ErrRenewalInPast,
		},
		{
			name:    "four weeks and a day",
			date:    now.AddDate(0, 0, 29),
			wantErr: errs.ErrRenewalTooFar,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := service.ValidateRenewalDate(now, tt.date)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

// Dates come off the wire as UTC midnight while the clock runs in server-local
// time; only calendar days may be compared, regardless of the server's zone.
func TestValidateRenewalDate_NonUTCClock(t *testing.T) {
	t.Parallel()
	west := time.FixedZone("UTC-5", -5*60*60)
	east := time.FixedZone("UTC+3", 3*60*60)

	var tests = []struct {
		name    string
		now     time.Time
		date    time.Time
		wantErr error
	}{
		{
			name: "today accepted west of UTC",
			now:  time.Date(2024, 3, 15, 10, 0, 0, 0, west),
			date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly four weeks accepted east of UTC",
			now:  time.Date(2024, 3, 15, 10, 0, 0, 0, east),
			date: time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "yesterday still rejected west of UTC",
			now:     time.Date(2024, 3, 15, 10, 0, 0, 0, west),
			date:    time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			wantErr: errs.ErrRenewalInPast,
		},
		{
			name:    "four weeks and a day still rejected east of UTC",
			now:     time.Date(2024, 3, 15, 10, 0, 0, 0, east),
			date:    time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC),
			wantErr: errs.ErrRenewalTooFar,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := service.ValidateRenewalDate(tt.now, tt.date)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDefaultRenewalDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)

	got := service.DefaultRenewalDate(now)
	require.Equal(t, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), got)

	// the proposal always falls inside the allowed window
	require.NoError(t, service.ValidateRenewalDate(now, got))
}

func TestService_Renew_UsesInjectedClock(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	svc := service.NewService(nil, zap.NewNop(), service.WithClock(func() time.Time { return now }))

	// rejected dates are decided by the pinned clock and never reach the
	// repository, so a nil repository is safe here
	err := svc.Renew(context.Background(), "c7f2e7c2-0000-0000-0000-000000000001",
		time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, errs.ErrRenewalInPast)

	err = svc.Renew(context.Background(), "c7f2e7c2-0000-0000-0000-000000000001",
		time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, errs.ErrRenewalTooFar)
}

func TestValidateRenewalDate_ErrorMessages(t *testing.T) {
	t.Parallel()
	now := time.Now()

	err := service.ValidateRenewalDate(now, now.AddDate(0, 0, -3))
	require.EqualError(t, err, "Invalid date - renewal in past")

	err = service.ValidateRenewalDate(now, now.AddDate(0, 0, 35))
	require.EqualError(t, err, "Invalid date - renewal more than 4 weeks ahead")
}
