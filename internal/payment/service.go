package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-coach/internal/common"
	"github.com/noah-isme/backend-coach/internal/events"
	"github.com/noah-isme/backend-coach/internal/kashier"
	"github.com/noah-isme/backend-coach/internal/repo"
)

// Store defines the payment persistence operations used by the service.
type Store interface {
	Create(ctx context.Context, p *repo.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (repo.Payment, error)
	UpdateStatus(ctx context.Context, orderID, status, transactionID string) error
	InsertEvent(ctx context.Context, paymentID uuid.UUID, status string, payload []byte) error
}

// BookingConfirmer promotes bookings attached to a paid order.
type BookingConfirmer interface {
	ConfirmByOrder(ctx context.Context, orderID string) error
}

// Service owns the checkout and notification flows. The gateway config is
// injected once at startup; the service never reads the environment.
type Service struct {
	Gateway  kashier.Config
	Store    Store
	Bookings BookingConfirmer
	Events   *events.Bus
	Validate *validator.Validate
	Logger   zerolog.Logger

	// DefaultRedirectURL is used when the checkout request omits one.
	DefaultRedirectURL string
}

// CheckoutInput carries a request to open a hosted-checkout session.
type CheckoutInput struct {
	OrderID       string  `json:"orderId" validate:"omitempty,max=64"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	CustomerName  string  `json:"customerName" validate:"required,max=120"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	RedirectURL   string  `json:"redirectUrl" validate:"required,url"`
	BookingID     string  `json:"bookingId" validate:"omitempty,uuid4"`
}

// CheckoutResult is returned to the client after a checkout URL is built.
type CheckoutResult struct {
	OrderID     string `json:"orderId"`
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirectUrl"`
}

// CreateCheckout validates the input, signs the outbound order message and
// persists the pending payment. Validation happens before any signature work.
func (s *Service) CreateCheckout(ctx context.Context, input CheckoutInput) (CheckoutResult, error) {
	if strings.TrimSpace(input.RedirectURL) == "" {
		input.RedirectURL = s.DefaultRedirectURL
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(input); err != nil {
			return CheckoutResult{}, common.Validation(validationMessage(err))
		}
	}

	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		orderID = NewOrderID()
	}
	amount := kashier.FormatAmount(input.Amount)
	reference := CustomerReference(input.CustomerName, orderID)

	redirectURL, err := s.Gateway.CheckoutURL(kashier.CheckoutRequest{
		OrderID:     orderID,
		Amount:      amount,
		Currency:    strings.ToUpper(input.Currency),
		RedirectURL: input.RedirectURL,
	})
	if err != nil {
		if errors.Is(err, kashier.ErrMissingCredentials) {
			return CheckoutResult{}, common.Configuration(err)
		}
		return CheckoutResult{}, common.Unexpected(err)
	}

	p := repo.Payment{
		OrderID:       orderID,
		Reference:     reference,
		Amount:        amount,
		Currency:      strings.ToUpper(input.Currency),
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
	}
	if input.BookingID != "" {
		if bid, parseErr := uuid.Parse(input.BookingID); parseErr == nil {
			p.BookingID = uuid.NullUUID{UUID: bid, Valid: true}
		}
	}
	if err := s.Store.Create(ctx, &p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return CheckoutResult{}, &common.AppError{
				Kind: common.KindValidation, Message: "orderId already exists", HTTPStatus: http.StatusConflict,
			}
		}
		return CheckoutResult{}, common.Unexpected(err)
	}

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicPaymentInitiated, p.ID, map[string]any{
			"orderId":   orderID,
			"reference": reference,
			"amount":    amount,
			"currency":  p.Currency,
		})
	}

	return CheckoutResult{OrderID: orderID, Reference: reference, RedirectURL: redirectURL}, nil
}

// ApplyNotification records a verified gateway notification: it updates the
// payment, appends the raw payload to the event history, confirms any
// attached booking on first settlement, and emits domain events. Callers
// must have verified the signature/hash already.
func (s *Service) ApplyNotification(ctx context.Context, n kashier.Notification, raw []byte) (string, error) {
	p, err := s.Store.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", &common.AppError{Kind: common.KindValidation, Message: "payment not found", HTTPStatus: http.StatusNotFound}
		}
		return "", common.Unexpected(err)
	}

	status := normaliseStatus(n.Status)
	if err := s.Store.UpdateStatus(ctx, n.OrderID, status, n.TransactionID); err != nil {
		return "", common.Unexpected(err)
	}
	if err := s.Store.InsertEvent(ctx, p.ID, status, raw); err != nil {
		s.Logger.Error().Err(err).Str("order_id", n.OrderID).Msg("record payment event")
	}

	settled := status == repo.PaymentStatusPaid && p.Status != repo.PaymentStatusPaid
	if settled && s.Bookings != nil {
		if err := s.Bookings.ConfirmByOrder(ctx, n.OrderID); err != nil {
			s.Logger.Error().Err(err).Str("order_id", n.OrderID).Msg("confirm booking")
		}
	}

	if s.Events != nil {
		payload := map[string]any{
			"orderId":   p.OrderID,
			"reference": p.Reference,
			"status":    status,
			"email":     p.CustomerEmail,
			"name":      p.CustomerName,
		}
		switch status {
		case repo.PaymentStatusPaid:
			if settled {
				_, _ = s.Events.Emit(ctx, events.TopicPaymentSucceeded, p.ID, payload)
			}
		case repo.PaymentStatusFailed:
			_, _ = s.Events.Emit(ctx, events.TopicPaymentFailed, p.ID, payload)
		case repo.PaymentStatusExpired:
			_, _ = s.Events.Emit(ctx, events.TopicPaymentExpired, p.ID, payload)
		}
	}

	return status, nil
}

// StatusByOrder reports the stored payment status for an order id.
func (s *Service) StatusByOrder(ctx context.Context, orderID string) (repo.Payment, error) {
	p, err := s.Store.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return repo.Payment{}, &common.AppError{Kind: common.KindValidation, Message: "payment not found", HTTPStatus: http.StatusNotFound}
		}
		return repo.Payment{}, common.Unexpected(err)
	}
	return p, nil
}

func normaliseStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS", "PAID", "CAPTURED", "SETTLED":
		return repo.PaymentStatusPaid
	case "FAILED", "DECLINED", "CANCELLED", "CANCELED":
		return repo.PaymentStatusFailed
	case "EXPIRED":
		return repo.PaymentStatusExpired
	default:
		return repo.PaymentStatusPending
	}
}

func validationMessage(err error) string {
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return "invalid request"
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, jsonFieldName(f.Field()))
		}
		return fmt.Sprintf("invalid or missing fields: %s", strings.Join(names, ", "))
	}
	return "invalid request"
}

func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
