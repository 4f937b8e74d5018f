package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	fieldRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/field"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
	"github.com/m04kA/SMC-Marketplace/pkg/ptr"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

type fakeFieldRepo struct {
	field      *domain.Field
	windows    []*domain.FieldAvailability
	closures   []*domain.FieldClosure
	windowsErr error
}

func (f *fakeFieldRepo) GetByID(_ context.Context, id int64) (*domain.Field, error) {
	if f.field == nil || f.field.ID != id {
		return nil, fieldRepo.ErrFieldNotFound
	}
	return f.field, nil
}

func (f *fakeFieldRepo) GetActiveAvailability(context.Context, int64) ([]*domain.FieldAvailability, error) {
	return f.windows, f.windowsErr
}

func (f *fakeFieldRepo) GetClosuresInRange(_ context.Context, _ int64, from, to time.Time) ([]*domain.FieldClosure, error) {
	result := make([]*domain.FieldClosure, 0)
	for _, c := range f.closures {
		if !c.ClosureDate.Before(from) && !c.ClosureDate.After(to) {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakeBookingRepo struct {
	bookings   []*domain.FieldBooking
	lastFilter domain.BookingsFilter
}

func (f *fakeBookingRepo) GetByFieldInRange(_ context.Context, filter domain.BookingsFilter) ([]*domain.FieldBooking, error) {
	f.lastFilter = filter
	return f.bookings, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}

// 2025-01-06 - понедельник
const monday = "2025-01-06"

func newUseCase(fields *fakeFieldRepo, bookings *fakeBookingRepo) *UseCase {
	uc := NewUseCase(fields, bookings, Settings{MaxRangeDays: 31, DefaultSlotMinutes: 60}, logger.NewNop())
	uc.timeProvider = fixedTime{now: time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)}
	return uc
}

func mondayField() *fakeFieldRepo {
	return &fakeFieldRepo{
		field: &domain.Field{ID: 1, Status: domain.FieldStatusActive},
		windows: []*domain.FieldAvailability{
			{ID: 1, FieldID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsActive: true},
		},
	}
}

func slotTimes(slots []domain.Slot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.StartTime.String() + "-" + s.EndTime.String()
	}
	return result
}

func TestUseCase_Execute_MondayWindowRoundTrip(t *testing.T) {
	uc := newUseCase(mondayField(), &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		FieldID:     1,
		StartDate:   ptr.Ptr(date(t, monday)),
		NumDays:     ptr.Ptr(1),
		SlotMinutes: ptr.Ptr(60),
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	day := resp.Days[0]
	assert.Equal(t, 1, day.DayOfWeek)
	assert.False(t, day.IsClosed)
	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}, slotTimes(day.Slots))
	for _, s := range day.Slots {
		assert.False(t, s.Booked)
	}
}

func TestUseCase_Execute_ClosureOverridesTemplate(t *testing.T) {
	fields := mondayField()
	fields.closures = []*domain.FieldClosure{
		{FieldID: 1, ClosureDate: date(t, monday), Reason: ptr.Ptr("tournament")},
	}
	uc := newUseCase(fields, &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		FieldID:   1,
		StartDate: ptr.Ptr(date(t, monday)),
		NumDays:   ptr.Ptr(1),
	})
	require.NoError(t, err)

	day := resp.Days[0]
	assert.True(t, day.IsClosed)
	assert.Empty(t, day.Slots)
	require.NotNil(t, day.Reason)
	assert.Equal(t, "tournament", *day.Reason)
}

func TestUseCase_Execute_DayWithoutWindowsIsClosed(t *testing.T) {
	uc := newUseCase(mondayField(), &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		FieldID:   1,
		StartDate: ptr.Ptr(date(t, "2025-01-07")), // вторник
		NumDays:   ptr.Ptr(1),
	})
	require.NoError(t, err)

	assert.True(t, resp.Days[0].IsClosed)
	assert.Nil(t, resp.Days[0].Reason)
	assert.NotNil(t, resp.Days[0].Slots)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestUseCase_Execute_MarksBookedSlotsHalfOpen(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.FieldBooking{
		{FieldID: 1, BookingDate: date(t, monday), StartTime: "08:00", EndTime: "09:00", Status: domain.BookingStatusConfirmed},
		{FieldID: 1, BookingDate: date(t, monday), StartTime: "10:15:00", EndTime: "10:45:00", Status: domain.BookingStatusPending},
		{FieldID: 1, BookingDate: date(t, monday), StartTime: "11:00", EndTime: "12:00", Status: domain.BookingStatusCancelled},
		{FieldID: 1, BookingDate: date(t, monday), StartTime: "garbage", EndTime: "12:00", Status: domain.BookingStatusConfirmed},
	}}
	uc := newUseCase(mondayField(), bookings)

	resp, err := uc.Execute(context.Background(), &Request{
		FieldID:   1,
		StartDate: ptr.Ptr(date(t, monday)),
		NumDays:   ptr.Ptr(1),
	})
	require.NoError(t, err)

	slots := resp.Days[0].Slots
	require.Len(t, slots, 3)
	assert.False(t, slots[0].Booked, "booking ending at 09:00 does not touch the 09:00 slot")
	assert.True(t, slots[1].Booked)
	assert.False(t, slots[2].Booked, "cancelled bookings are ignored")

	assert.True(t, bookings.lastFilter.OnlyActive)
}

func TestUseCase_Execute_SkipsMalformedWindowsAndPartialSlots(t *testing.T) {
	fields := &fakeFieldRepo{
		field: &domain.Field{ID: 1},
		windows: []*domain.FieldAvailability{
			{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:30", IsActive: true},
			{DayOfWeek: 1, StartTime: "xx:yy", EndTime: "12:00", IsActive: true},
			{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00", IsActive: true},
			{DayOfWeek: 1, StartTime: "18:00", EndTime: "17:00", IsActive: true},
		},
	}
	uc := newUseCase(fields, &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		FieldID:   1,
		StartDate: ptr.Ptr(date(t, monday)),
		NumDays:   ptr.Ptr(1),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00-10:00", "14:00-15:00"}, slotTimes(resp.Days[0].Slots))
}

func TestUseCase_Execute_OnlyMalformedWindowsMeansClosed(t *testing.T) {
	fields := &fakeFieldRepo{
		field: &domain.Field{ID: 1},
		windows: []*domain.FieldAvailability{
			{DayOfWeek: 1, StartTime: "bad", EndTime: "12:00", IsActive: true},
		},
	}
	uc := newUseCase(fields, &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{FieldID: 1, StartDate: ptr.Ptr(date(t, monday)), NumDays: ptr.Ptr(1)})
	require.NoError(t, err)
	assert.True(t, resp.Days[0].IsClosed)
}

func TestUseCase_Execute_Defaults(t *testing.T) {
	uc := newUseCase(mondayField(), &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{FieldID: 1})
	require.NoError(t, err)

	assert.Equal(t, date(t, monday), resp.StartDate)
	assert.Equal(t, 7, resp.NumDays)
	assert.Equal(t, 60, resp.SlotMinutes)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, date(t, "2025-01-12"), resp.Days[6].Date)
	assert.Equal(t, 0, resp.Days[6].DayOfWeek)
}

func TestUseCase_Execute_ClampsNumDays(t *testing.T) {
	uc := newUseCase(mondayField(), &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{FieldID: 1, NumDays: ptr.Ptr(365)})
	require.NoError(t, err)
	assert.Len(t, resp.Days, 31)

	resp, err = uc.Execute(context.Background(), &Request{FieldID: 1, NumDays: ptr.Ptr(0)})
	require.NoError(t, err)
	assert.Len(t, resp.Days, 1)
}

func TestUseCase_Execute_InvalidSlotMinutes(t *testing.T) {
	uc := newUseCase(mondayField(), &fakeBookingRepo{})

	for _, minutes := range []int{0, -30} {
		_, err := uc.Execute(context.Background(), &Request{FieldID: 1, SlotMinutes: ptr.Ptr(minutes)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestUseCase_Execute_FieldNotFound(t *testing.T) {
	uc := newUseCase(&fakeFieldRepo{}, &fakeBookingRepo{})

	_, err := uc.Execute(context.Background(), &Request{FieldID: 99})
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestUseCase_Execute_RepositoryFailure(t *testing.T) {
	fields := mondayField()
	fields.windowsErr = errors.New("connection reset")
	uc := newUseCase(fields, &fakeBookingRepo{})

	_, err := uc.Execute(context.Background(), &Request{FieldID: 1})
	assert.ErrorIs(t, err, ErrInternal)
}
