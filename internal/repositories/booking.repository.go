package repositories

import (
	"context"
	"time"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRepository queries use half-open hotel-local day windows
// [dayStart, nextDay) computed by the caller, so the repository stays
// timezone-agnostic.
type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *Booking) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)
	// ListCheckOutsBetween returns bookings whose check-out falls inside the
	// window, excluding canceled ones.
	ListCheckOutsBetween(ctx context.Context, tx *gorm.DB, dayStart, nextDay time.Time) ([]*Booking, error)
	// ListCheckInsBetween returns bookings whose check-in falls inside the
	// window, excluding canceled ones.
	ListCheckInsBetween(ctx context.Context, tx *gorm.DB, dayStart, nextDay time.Time) ([]*Booking, error)
	// ListStayoversFor returns bookings strictly spanning the day: check-in
	// before dayStart and check-out on a later day than the window.
	ListStayoversFor(ctx context.Context, tx *gorm.DB, dayStart, nextDay time.Time) ([]*Booking, error)
	// NextCheckInForRoom finds the earliest check-in for the room at or after
	// from. Returns nil when there is none.
	NextCheckInForRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, from time.Time) (*Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to BookingStatus) (int64, error)
}

type bookingRepository struct{}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := logger.New("bookingRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(booking).Error; err != nil {
		return log.Err("failed to create booking", err, "roomID", booking.RoomID)
	}

	return nil
}

func (r *bookingRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Booking, error) {
	log := logger.New("bookingRepository").Function("GetByID")

	var booking Booking
	if err := tx.WithContext(ctx).
		Preload("Room").
		Preload("Room.RoomType").
		First(&booking, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get booking", err, "bookingID", id)
	}

	return &booking, nil
}

func (r *bookingRepository) ListCheckOutsBetween(
	ctx context.Context,
	tx *gorm.DB,
	dayStart, nextDay time.Time,
) ([]*Booking, error) {
	log := logger.New("bookingRepository").Function("ListCheckOutsBetween")

	var bookings []*Booking
	if err := tx.WithContext(ctx).
		Preload("Room").
		Where("check_out >= ? AND check_out < ? AND status <> ?", dayStart, nextDay, BookingCanceled).
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to list check-outs", err)
	}

	return bookings, nil
}

func (r *bookingRepository) ListCheckInsBetween(
	ctx context.Context,
	tx *gorm.DB,
	dayStart, nextDay time.Time,
) ([]*Booking, error) {
	log := logger.New("bookingRepository").Function("ListCheckInsBetween")

	var bookings []*Booking
	if err := tx.WithContext(ctx).
		Preload("Room").
		Where("check_in >= ? AND check_in < ? AND status <> ?", dayStart, nextDay, BookingCanceled).
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to list check-ins", err)
	}

	return bookings, nil
}

func (r *bookingRepository) ListStayoversFor(
	ctx context.Context,
	tx *gorm.DB,
	dayStart, nextDay time.Time,
) ([]*Booking, error) {
	log := logger.New("bookingRepository").Function("ListStayoversFor")

	var bookings []*Booking
	if err := tx.WithContext(ctx).
		Preload("Room").
		Where("check_in < ? AND check_out >= ? AND status <> ?", dayStart, nextDay, BookingCanceled).
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to list stayovers", err)
	}

	return bookings, nil
}

func (r *bookingRepository) NextCheckInForRoom(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	from time.Time,
) (*Booking, error) {
	log := logger.New("bookingRepository").Function("NextCheckInForRoom")

	var booking Booking
	err := tx.WithContext(ctx).
		Where("room_id = ? AND check_in >= ? AND status <> ?", roomID, from, BookingCanceled).
		Order("check_in ASC").
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to find next check-in", err, "roomID", roomID)
	}

	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	from, to BookingStatus,
) (int64, error) {
	log := logger.New("bookingRepository").Function("UpdateStatus")

	result := tx.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return 0, log.Err("failed to update booking status", result.Error, "bookingID", id)
	}

	return result.RowsAffected, nil
}
