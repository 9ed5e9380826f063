package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-coach/internal/common"
	"github.com/noah-isme/backend-coach/internal/events"
	"github.com/noah-isme/backend-coach/internal/repo"
)

// Store defines the booking persistence operations used by the service.
type Store interface {
	Create(ctx context.Context, b *repo.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (repo.Booking, error)
	List(ctx context.Context, limit, offset int32) ([]repo.Booking, error)
}

// Service owns booking submissions from the public site.
type Service struct {
	Store    Store
	Events   *events.Bus
	Validate *validator.Validate
	Logger   zerolog.Logger
}

// Input is a booking form submission.
type Input struct {
	Name        string    `json:"name" validate:"required,max=120"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"omitempty,max=32"`
	Program     string    `json:"program" validate:"required,max=120"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Notes       string    `json:"notes" validate:"omitempty,max=2000"`
}

// Create validates and persists a booking, then emits booking.created so the
// confirmation email goes out.
func (s *Service) Create(ctx context.Context, input Input) (repo.Booking, error) {
	if s.Validate != nil {
		if err := s.Validate.Struct(input); err != nil {
			return repo.Booking{}, common.Validation(validationMessage(err))
		}
	}
	if !input.ScheduledAt.After(time.Now()) {
		return repo.Booking{}, common.Validation("scheduledAt must be in the future")
	}

	b := repo.Booking{
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Program:     strings.TrimSpace(input.Program),
		ScheduledAt: input.ScheduledAt,
		Notes:       input.Notes,
	}
	if err := s.Store.Create(ctx, &b); err != nil {
		return repo.Booking{}, common.Unexpected(err)
	}

	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicBookingCreated, b.ID, map[string]any{
			"bookingId": b.ID.String(),
			"name":      b.Name,
			"email":     b.Email,
			"program":   b.Program,
		}); err != nil {
			s.Logger.Error().Err(err).Str("booking_id", b.ID.String()).Msg("emit booking.created")
		}
	}
	return b, nil
}

// Get loads one booking by id.
func (s *Service) Get(ctx context.Context, id string) (repo.Booking, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return repo.Booking{}, common.Validation("invalid booking id")
	}
	b, err := s.Store.GetByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return repo.Booking{}, &common.AppError{Kind: common.KindValidation, Message: "booking not found", HTTPStatus: http.StatusNotFound}
		}
		return repo.Booking{}, common.Unexpected(err)
	}
	return b, nil
}

// List returns bookings for the admin dashboard.
func (s *Service) List(ctx context.Context, limit, offset int32) ([]repo.Booking, error) {
	out, err := s.Store.List(ctx, limit, offset)
	if err != nil {
		return nil, common.Unexpected(err)
	}
	return out, nil
}

func validationMessage(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			name := f.Field()
			if name != "" {
				name = strings.ToLower(name[:1]) + name[1:]
			}
			names = append(names, name)
		}
		return fmt.Sprintf("invalid or missing fields: %s", strings.Join(names, ", "))
	}
	return "invalid request"
}
