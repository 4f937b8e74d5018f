package fields

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	fieldRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/field"
	"github.com/m04kA/SMC-Marketplace/internal/service/fields/models"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// Service сервис управления расписанием поля: недельные окна и закрытия на даты.
// Изменять расписание может владелец мерчанта поля или администратор.
type Service struct {
	fieldRepo    FieldRepository
	merchantRepo MerchantRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(fieldRepo FieldRepository, merchantRepo MerchantRepository, logger Logger) *Service {
	return &Service{
		fieldRepo:    fieldRepo,
		merchantRepo: merchantRepo,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// GetSchedule возвращает активные окна поля и закрытия на ближайшие MaxRangeDays дней
func (s *Service) GetSchedule(ctx context.Context, fieldID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: field=%d", fieldID)

	if _, err := s.getField(ctx, "GetSchedule", fieldID); err != nil {
		return nil, err
	}

	windows, err := s.fieldRepo.GetActiveAvailability(ctx, fieldID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %w", ErrInternal, err)
	}

	today := types.Today(s.timeProvider.Now())
	closures, err := s.fieldRepo.GetClosuresInRange(ctx, fieldID, today, types.AddDays(today, domain.MaxRangeDays-1))
	if err != nil {
		s.logger.Error("GetSchedule: failed to get closures: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %w", ErrInternal, err)
	}

	resp := &models.ScheduleResponse{
		FieldID:      fieldID,
		Availability: make([]models.AvailabilityResponse, 0, len(windows)),
		Closures:     make([]models.ClosureResponse, 0, len(closures)),
	}
	for _, w := range windows {
		resp.Availability = append(resp.Availability, models.FromDomainAvailability(w))
	}
	for _, c := range closures {
		resp.Closures = append(resp.Closures, models.FromDomainClosure(c))
	}

	return resp, nil
}

// AddAvailability добавляет недельное окно доступности.
// Пересечение с другими окнами того же дня не проверяется.
func (s *Service) AddAvailability(ctx context.Context, req *models.AddAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("AddAvailability: field=%d, day=%d, %s-%s by user=%d",
		req.FieldID, req.DayOfWeek, req.StartTime, req.EndTime, req.Actor.UserID)

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %w", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %w", ErrInvalidInput, err)
	}

	startMin, _ := start.Minutes()
	endMin, _ := end.Minutes()
	if endMin <= startMin {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if err := s.checkAccess(ctx, "AddAvailability", req.FieldID, req.Actor); err != nil {
		return nil, err
	}

	created, err := s.fieldRepo.CreateAvailability(ctx, &domain.FieldAvailability{
		FieldID:   req.FieldID,
		DayOfWeek: req.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	})
	if err != nil {
		s.logger.Error("AddAvailability: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddAvailability - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("AddAvailability: created window id=%d for field=%d", created.ID, req.FieldID)
	resp := models.FromDomainAvailability(created)
	return &resp, nil
}

// DeactivateAvailability выключает окно доступности
func (s *Service) DeactivateAvailability(ctx context.Context, actor domain.Actor, fieldID, availabilityID int64) error {
	s.logger.Info("DeactivateAvailability: field=%d, window=%d by user=%d", fieldID, availabilityID, actor.UserID)

	if err := s.checkAccess(ctx, "DeactivateAvailability", fieldID, actor); err != nil {
		return err
	}

	if err := s.fieldRepo.DeactivateAvailability(ctx, fieldID, availabilityID); err != nil {
		if errors.Is(err, fieldRepo.ErrAvailabilityNotFound) {
			return ErrAvailabilityNotFound
		}
		s.logger.Error("DeactivateAvailability: repository error: %v", err)
		return fmt.Errorf("%w: DeactivateAvailability - repository error: %w", ErrInternal, err)
	}

	return nil
}

// AddClosure закрывает поле на дату. Закрытие перекрывает недельное расписание.
func (s *Service) AddClosure(ctx context.Context, req *models.AddClosureRequest) (*models.ClosureResponse, error) {
	s.logger.Info("AddClosure: field=%d, date=%s by user=%d", req.FieldID, req.Date, req.Actor.UserID)

	date, err := types.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD: %w", ErrInvalidInput, err)
	}

	reason := req.Reason
	if reason != nil && strings.TrimSpace(*reason) == "" {
		reason = nil
	}

	if err := s.checkAccess(ctx, "AddClosure", req.FieldID, req.Actor); err != nil {
		return nil, err
	}

	created, err := s.fieldRepo.CreateClosure(ctx, &domain.FieldClosure{
		FieldID:     req.FieldID,
		ClosureDate: date,
		Reason:      reason,
	})
	if err != nil {
		if errors.Is(err, fieldRepo.ErrClosureExists) {
			s.logger.Warn("AddClosure: field=%d is already closed on %s", req.FieldID, req.Date)
			return nil, ErrClosureExists
		}
		s.logger.Error("AddClosure: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddClosure - repository error: %w", ErrInternal, err)
	}

	resp := models.FromDomainClosure(created)
	return &resp, nil
}

// DeleteClosure снимает закрытие поля
func (s *Service) DeleteClosure(ctx context.Context, actor domain.Actor, fieldID, closureID int64) error {
	s.logger.Info("DeleteClosure: field=%d, closure=%d by user=%d", fieldID, closureID, actor.UserID)

	if err := s.checkAccess(ctx, "DeleteClosure", fieldID, actor); err != nil {
		return err
	}

	if err := s.fieldRepo.DeleteClosure(ctx, fieldID, closureID); err != nil {
		if errors.Is(err, fieldRepo.ErrClosureNotFound) {
			return ErrClosureNotFound
		}
		s.logger.Error("DeleteClosure: repository error: %v", err)
		return fmt.Errorf("%w: DeleteClosure - repository error: %w", ErrInternal, err)
	}

	return nil
}

// Вспомогательные методы

func (s *Service) getField(ctx context.Context, op string, fieldID int64) (*domain.Field, error) {
	field, err := s.fieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			s.logger.Warn("%s: field id=%d not found", op, fieldID)
			return nil, ErrFieldNotFound
		}
		s.logger.Error("%s: failed to get field id=%d: %v", op, fieldID, err)
		return nil, fmt.Errorf("%w: %s - failed to get field: %w", ErrInternal, op, err)
	}
	return field, nil
}

// checkAccess проверяет, что пользователь администратор или владелец мерчанта поля
func (s *Service) checkAccess(ctx context.Context, op string, fieldID int64, actor domain.Actor) error {
	field, err := s.getField(ctx, op, fieldID)
	if err != nil {
		return err
	}

	if actor.IsAdmin() {
		return nil
	}

	isOwner, err := s.merchantRepo.IsOwner(ctx, field.MerchantID, actor.UserID)
	if err != nil {
		s.logger.Error("%s: failed to check owner of merchant=%d: %v", op, field.MerchantID, err)
		return fmt.Errorf("%w: %s - failed to check owner: %w", ErrInternal, op, err)
	}
	if !isOwner {
		s.logger.Warn("%s: user=%d is not an owner of merchant=%d", op, actor.UserID, field.MerchantID)
		return ErrAccessDenied
	}

	return nil
}
