package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	bookingRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/field"
	"github.com/m04kA/SMC-Marketplace/internal/service/bookings/models"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	fieldRepo    FieldRepository
	merchantRepo MerchantRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	merchantRepo MerchantRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		fieldRepo:    fieldRepo,
		merchantRepo: merchantRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Доступ есть у автора бронирования, владельца мерчанта поля и администратора
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if booking.UserID != actor.UserID {
		if err := s.checkFieldAccess(ctx, booking.FieldID, actor); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
			return nil, err
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetFieldBookings получает бронирования поля за период
// Доступно только владельцу мерчанта поля и администратору
func (s *Service) GetFieldBookings(ctx context.Context, req *models.GetFieldBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetFieldBookings: fetching bookings for field=%d, period=%s to %s, user=%d",
		req.FieldID, types.FormatDate(req.StartDate), types.FormatDate(req.EndDate), req.Actor.UserID)

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	if err := s.checkFieldAccess(ctx, req.FieldID, req.Actor); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByFieldInRange(ctx, domain.BookingsFilter{
		FieldID:    req.FieldID,
		StartDate:  types.DateOnly(req.StartDate),
		EndDate:    types.DateOnly(req.EndDate),
		OnlyActive: !req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("GetFieldBookings: repository error for field=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: GetFieldBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetFieldBookings: successfully fetched %d bookings for field=%d", len(bookings), req.FieldID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет статус бронирования.
// Допустимые переходы: pending → confirmed, pending|confirmed → cancelled, confirmed → completed.
// Автор бронирования может только отменить его, остальные переходы доступны
// владельцу мерчанта поля и администратору.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.Actor.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var result *domain.FieldBooking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем строку бронирования
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		// 2. Проверяем права доступа
		ownCancel := booking.UserID == req.Actor.UserID && newStatus == domain.BookingStatusCancelled
		if !ownCancel {
			if err := s.checkFieldAccess(txCtx, booking.FieldID, req.Actor); err != nil {
				s.logger.Warn("UpdateStatus: access denied for user=%d to booking id=%d", req.Actor.UserID, bookingID)
				return err
			}
		}

		// 3. Проверяем переход статуса
		if !booking.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot change status %s -> %s", bookingID, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, booking.Status, newStatus)
		}

		// 4. Обновляем статус, только если он не изменился с момента чтения
		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, booking.Status, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) {
				s.logger.Warn("UpdateStatus: booking id=%d status changed concurrently", bookingID)
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidStateTransition)
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		booking.Status = newStatus
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(result), nil
}

// Cancel отменяет бронирование
func (s *Service) Cancel(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	return s.UpdateStatus(ctx, bookingID, &models.UpdateStatusRequest{
		Actor:  actor,
		Status: string(domain.BookingStatusCancelled),
	})
}

// Вспомогательные методы

// checkFieldAccess проверяет, что пользователь администратор или владелец мерчанта поля
func (s *Service) checkFieldAccess(ctx context.Context, fieldID int64, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	field, err := s.fieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			s.logger.Warn("checkFieldAccess: field id=%d not found", fieldID)
			return ErrFieldNotFound
		}
		s.logger.Error("checkFieldAccess: failed to get field id=%d: %v", fieldID, err)
		return fmt.Errorf("%w: checkFieldAccess - failed to get field: %w", ErrInternal, err)
	}

	isOwner, err := s.merchantRepo.IsOwner(ctx, field.MerchantID, actor.UserID)
	if err != nil {
		s.logger.Error("checkFieldAccess: failed to check merchant id=%d owner: %v", field.MerchantID, err)
		return fmt.Errorf("%w: checkFieldAccess - failed to check owner: %w", ErrInternal, err)
	}

	if !isOwner {
		s.logger.Warn("checkFieldAccess: user=%d is not an owner of merchant=%d", actor.UserID, field.MerchantID)
		return ErrAccessDenied
	}

	return nil
}
