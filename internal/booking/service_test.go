package booking

import (
	"context"
	"net/http"
	"testing"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-coach/internal/common"
	"github.com/noah-isme/backend-coach/internal/events"
	"github.com/noah-isme/backend-coach/internal/repo"
)

type fakeStore struct {
	bookings map[uuid.UUID]repo.Booking
	order    []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: map[uuid.UUID]repo.Booking{}}
}

func (f *fakeStore) Create(_ context.Context, b *repo.Booking) error {
	b.ID = uuid.New()
	b.Status = repo.BookingStatusPending
	b.CreatedAt = time.Now()
	f.bookings[b.ID] = *b
	f.order = append(f.order, b.ID)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repo.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return repo.Booking{}, repo.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) List(_ context.Context, limit, offset int32) ([]repo.Booking, error) {
	var out []repo.Booking
	for i := int(offset); i < len(f.order) && len(out) < int(limit); i++ {
		out = append(out, f.bookings[f.order[i]])
	}
	return out, nil
}

type fakeEventStore struct {
	topics []string
}

func (f *fakeEventStore) Insert(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (repo.DomainEvent, error) {
	f.topics = append(f.topics, topic)
	return repo.DomainEvent{ID: uuid.New(), Topic: topic, AggregateID: aggregateID, Payload: payload}, nil
}

func newTestService(store Store, eventStore events.Store) *Service {
	return &Service{
		Store:    store,
		Events:   &events.Bus{Store: eventStore},
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func validInput() Input {
	return Input{
		Name:        "Alice Smith",
		Email:       "alice@example.com",
		Program:     "1:1 coaching",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	}
}

func TestCreateBooking(t *testing.T) {
	store := newFakeStore()
	eventStore := &fakeEventStore{}
	svc := newTestService(store, eventStore)

	b, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, b.ID)
	require.Equal(t, repo.BookingStatusPending, b.Status)
	require.Equal(t, []string{events.TopicBookingCreated}, eventStore.topics)
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeEventStore{})

	input := validInput()
	input.Email = "nope"
	input.Program = ""

	_, err := svc.Create(context.Background(), input)
	appErr := common.AsAppError(err)
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	require.Contains(t, appErr.Message, "email")
	require.Contains(t, appErr.Message, "program")
}

func TestCreateBookingRejectsPastSchedule(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeEventStore{})

	input := validInput()
	input.ScheduledAt = time.Now().Add(-time.Hour)

	_, err := svc.Create(context.Background(), input)
	appErr := common.AsAppError(err)
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	require.Equal(t, "scheduledAt must be in the future", appErr.Message)
}

func TestGetBooking(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeEventStore{})

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = svc.Get(context.Background(), "not-a-uuid")
	require.Equal(t, "invalid booking id", common.AsAppError(err).Message)

	_, err = svc.Get(context.Background(), uuid.NewString())
	require.Equal(t, http.StatusNotFound, common.AsAppError(err).HTTPStatus)
}

func TestListBookings(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeEventStore{})

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
	}

	out, err := svc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = svc.List(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
}
