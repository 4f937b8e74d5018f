package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	subscriptionRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/subscription"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

type fakeSubscriptionRepo struct {
	subs       map[int64]*domain.FieldSubscription
	sweepCalls int
}

func (f *fakeSubscriptionRepo) GetByID(_ context.Context, id int64) (*domain.FieldSubscription, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, subscriptionRepo.ErrSubscriptionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSubscriptionRepo) GetByUserID(_ context.Context, userID int64) ([]*domain.FieldSubscription, error) {
	result := make([]*domain.FieldSubscription, 0)
	for _, s := range f.subs {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSubscriptionRepo) GetActiveByFieldAndUser(_ context.Context, fieldID, userID int64) ([]*domain.FieldSubscription, error) {
	result := make([]*domain.FieldSubscription, 0)
	for _, s := range f.subs {
		if s.FieldID == fieldID && s.UserID == userID && s.IsActive() {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSubscriptionRepo) ExpireOverdue(_ context.Context, userID int64, fieldID *int64, today time.Time) (int64, error) {
	f.sweepCalls++
	var n int64
	for _, s := range f.subs {
		if s.UserID == userID && (fieldID == nil || s.FieldID == *fieldID) && s.IsOverdue(today) {
			s.Status = domain.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) UpdateStatus(_ context.Context, id int64, from, to domain.SubscriptionStatus) error {
	s, ok := f.subs[id]
	if !ok || s.Status != from {
		return subscriptionRepo.ErrStatusChanged
	}
	s.Status = to
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newService(t *testing.T, subs map[int64]*domain.FieldSubscription) (*Service, *fakeSubscriptionRepo) {
	t.Helper()
	repo := &fakeSubscriptionRepo{subs: subs}
	svc := NewService(repo, inlineTx{}, nil, logger.NewNop())
	svc.timeProvider = fixedTime{now: date(t, "2025-02-10")}
	return svc, repo
}

func subscription(t *testing.T, id int64, end string, status domain.SubscriptionStatus) *domain.FieldSubscription {
	return &domain.FieldSubscription{
		ID: id, FieldID: 1, UserID: 42, Type: domain.SubscriptionMonthly,
		StartDate: date(t, "2025-01-01"), EndDate: date(t, end), Status: status,
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name       string
		sub        *domain.FieldSubscription
		userID     int64
		wantErr    error
		wantStatus domain.SubscriptionStatus
	}{
		{name: "owner cancels active", sub: subscription(t, 1, "2025-02-28", domain.SubscriptionStatusActive), userID: 42, wantStatus: domain.SubscriptionStatusCancelled},
		{name: "last day is still active", sub: subscription(t, 1, "2025-02-10", domain.SubscriptionStatusActive), userID: 42, wantStatus: domain.SubscriptionStatusCancelled},
		{name: "other user", sub: subscription(t, 1, "2025-02-28", domain.SubscriptionStatusActive), userID: 7, wantErr: ErrForbidden, wantStatus: domain.SubscriptionStatusActive},
		{name: "already cancelled", sub: subscription(t, 1, "2025-02-28", domain.SubscriptionStatusCancelled), userID: 42, wantErr: ErrInvalidStateTransition, wantStatus: domain.SubscriptionStatusCancelled},
		{name: "overdue is swept to expired", sub: subscription(t, 1, "2025-01-31", domain.SubscriptionStatusActive), userID: 42, wantErr: ErrInvalidStateTransition, wantStatus: domain.SubscriptionStatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t, map[int64]*domain.FieldSubscription{1: tt.sub})

			resp, err := svc.Cancel(context.Background(), 1, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, string(tt.wantStatus), resp.Status)
			}
			assert.Equal(t, tt.wantStatus, repo.subs[1].Status)
		})
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := newService(t, map[int64]*domain.FieldSubscription{})

	_, err := svc.Cancel(context.Background(), 5, 42)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestGetUserSubscriptions_SweepsFirst(t *testing.T) {
	svc, repo := newService(t, map[int64]*domain.FieldSubscription{
		1: subscription(t, 1, "2025-01-31", domain.SubscriptionStatusActive),
	})

	resp, err := svc.GetUserSubscriptions(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.sweepCalls)
	require.Len(t, resp.Subscriptions, 1)
	assert.Equal(t, string(domain.SubscriptionStatusExpired), resp.Subscriptions[0].Status)
	assert.Equal(t, "2025-01-31", resp.Subscriptions[0].EndDate)
}

func TestGetActiveSubscription(t *testing.T) {
	svc, _ := newService(t, map[int64]*domain.FieldSubscription{
		1: subscription(t, 1, "2025-01-31", domain.SubscriptionStatusActive),
	})

	_, err := svc.GetActiveSubscription(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	svc, _ = newService(t, map[int64]*domain.FieldSubscription{
		2: subscription(t, 2, "2025-02-28", domain.SubscriptionStatusActive),
	})

	resp, err := svc.GetActiveSubscription(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ID)
}

func TestGetActiveSubscription_PrefersPeriodCoveringToday(t *testing.T) {
	period := func(id int64, start, end string) *domain.FieldSubscription {
		return &domain.FieldSubscription{
			ID: id, FieldID: 1, UserID: 42, Type: domain.SubscriptionMonthly,
			StartDate: date(t, start), EndDate: date(t, end), Status: domain.SubscriptionStatusActive,
		}
	}

	svc, _ := newService(t, map[int64]*domain.FieldSubscription{
		1: period(1, "2025-02-01", "2025-02-28"),
		2: period(2, "2025-03-01", "2025-03-31"),
	})

	resp, err := svc.GetActiveSubscription(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	svc, _ = newService(t, map[int64]*domain.FieldSubscription{
		3: period(3, "2025-03-01", "2025-03-31"),
	})

	resp, err = svc.GetActiveSubscription(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
}
