package booking

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// publishAttempts bounds broker retries for one event.
const publishAttempts = 3

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CreateBookingForCustomer(ctx context.Context, customerUsername string, flightID int64, numSeats int) (*domain.Booking, error)
	ProcessPayment(ctx context.Context, bookingID int64) (*PaymentResult, error)
	CancelSeats(ctx context.Context, actingUserID, bookingID int64, numSeats int, ownershipCheck bool) (*repository.CancelOutcome, error)
	AgentCancelBooking(ctx context.Context, bookingID int64) (*repository.CancelOutcome, error)
	ModifyBooking(ctx context.Context, bookingID int64, newNumSeats int) (*domain.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookingsForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAllBookings(ctx context.Context, actingUserID int64) ([]domain.Booking, error)
	AttachPassenger(ctx context.Context, bookingID int64, passenger *domain.Passenger) error
	ListPassengers(ctx context.Context, bookingID int64) ([]domain.Passenger, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// PaymentGateway captures payment for a booking. Implementations return
// false when the charge is declined.
type PaymentGateway interface {
	Charge(ctx context.Context, booking *domain.Booking, amountCents int64) (bool, error)
}

// AcceptAllGateway approves every charge. Stand-in until a real gateway
// is wired.
type AcceptAllGateway struct{}

func (AcceptAllGateway) Charge(ctx context.Context, booking *domain.Booking, amountCents int64) (bool, error) {
	return true, nil
}

// PaymentResult distinguishes a fresh capture from the no-op on a
// booking that was already paid.
type PaymentResult struct {
	Booking     *domain.Booking
	AlreadyPaid bool
	Captured    bool
}

type CreateBookingInput struct {
	UserID   int64 `json:"user_id"`
	FlightID int64 `json:"flight_id"`
	NumSeats int   `json:"num_seats"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	users              repository.UserRepository
	passengers         repository.PassengerRepository
	cache              Cache
	producer           Producer
	gateway            PaymentGateway
	bookingTopic       string
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPaymentGateway(gateway PaymentGateway) BookingServiceOption {
	return func(s *BookingService) {
		s.gateway = gateway
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	users repository.UserRepository,
	passengers repository.PassengerRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		users:        users,
		passengers:   passengers,
		cache:        cache,
		producer:     producer,
		gateway:      AcceptAllGateway{},
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.NumSeats <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference: uuid.NewString(),
		UserID:    user.ID,
		FlightID:  input.FlightID,
		NumSeats:  input.NumSeats,
	}

	// The capacity check and the row insert are one transaction; a
	// concurrent creator cannot slip between them.
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// CreateBookingForCustomer lets staff book on behalf of a customer found
// by username. Non-customer targets are treated as not found.
func (s *BookingService) CreateBookingForCustomer(ctx context.Context, customerUsername string, flightID int64, numSeats int) (*domain.Booking, error) {
	customer, err := s.users.GetByUsername(ctx, customerUsername)
	if err != nil {
		return nil, err
	}
	if customer.Role != domain.RoleCustomer {
		return nil, domain.ErrUserNotFound
	}
	return s.CreateBooking(ctx, CreateBookingInput{UserID: customer.ID, FlightID: flightID, NumSeats: numSeats})
}

func (s *BookingService) ProcessPayment(ctx context.Context, bookingID int64) (*PaymentResult, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusPaid {
		return &PaymentResult{Booking: current, AlreadyPaid: true}, nil
	}

	flight, err := s.flights.GetByID(ctx, current.FlightID)
	if err != nil {
		return nil, err
	}
	ok, err := s.gateway.Charge(ctx, current, flight.PriceCents*int64(current.NumSeats))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &PaymentResult{Booking: current}, nil
	}

	// Payment is a status-only transition; seat counts are untouched.
	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusPaid)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_paid", updated)
	return &PaymentResult{Booking: updated, Captured: true}, nil
}

func (s *BookingService) CancelSeats(ctx context.Context, actingUserID, bookingID int64, numSeats int, ownershipCheck bool) (*repository.CancelOutcome, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.bookings.CancelSeats(ctx, bookingID, numSeats, actingUserID, ownershipCheck)
	if err != nil {
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publishEvent(ctx, cancellationEvent(current, outcome))
	return outcome, nil
}

// AgentCancelBooking removes a booking entirely, releasing all its
// seats, with no ownership check. The seat count comes from the delete
// transaction itself, not from an earlier read.
func (s *BookingService) AgentCancelBooking(ctx context.Context, bookingID int64) (*repository.CancelOutcome, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.bookings.CancelAll(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publishEvent(ctx, cancellationEvent(current, outcome))
	return outcome, nil
}

func (s *BookingService) ModifyBooking(ctx context.Context, bookingID int64, newNumSeats int) (*domain.Booking, error) {
	updated, err := s.bookings.Resize(ctx, bookingID, newNumSeats)
	if err != nil {
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_modified", updated)
	return updated, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListBookingsForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

func (s *BookingService) ListAllBookings(ctx context.Context, actingUserID int64) ([]domain.Booking, error) {
	user, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if !user.Role.CanOverrideOwnership() {
		return nil, domain.ErrPermissionDenied
	}
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) AttachPassenger(ctx context.Context, bookingID int64, passenger *domain.Passenger) error {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return err
	}
	return s.passengers.CreateAndLink(ctx, bookingID, passenger)
}

func (s *BookingService) ListPassengers(ctx context.Context, bookingID int64) ([]domain.Passenger, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.passengers.ListForBooking(ctx, bookingID)
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		logrus.WithError(err).Warn("failed to invalidate flights cache")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	s.publishEvent(ctx, kafka.BookingEvent{
		Type:      eventType,
		Reference: booking.Reference,
		BookingID: booking.ID,
		UserID:    booking.UserID,
		FlightID:  booking.FlightID,
		NumSeats:  booking.NumSeats,
		Status:    string(booking.Status),
	})
}

// cancellationEvent reports the post-cancel seat count alongside how
// many seats the cancellation released.
func cancellationEvent(before *domain.Booking, outcome *repository.CancelOutcome) kafka.BookingEvent {
	remaining := before.NumSeats - outcome.SeatsCancelled
	if outcome.BookingDeleted {
		remaining = 0
	}
	return kafka.BookingEvent{
		Type:           "booking_cancelled",
		Reference:      before.Reference,
		BookingID:      before.ID,
		UserID:         before.UserID,
		FlightID:       outcome.FlightID,
		NumSeats:       remaining,
		SeatsCancelled: outcome.SeatsCancelled,
		Status:         string(before.Status),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	if user, err := s.users.GetByID(ctx, event.UserID); err == nil {
		event.Email = user.Email
	}

	if err := s.producer.PublishWithRetry(ctx, s.bookingTopic, event.Reference, event, publishAttempts); err != nil {
		logrus.WithError(err).WithField("reference", event.Reference).Warnf("failed to publish %s event", event.Type)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, event.Reference, event, publishAttempts); err != nil {
			logrus.WithError(err).WithField("reference", event.Reference).Warnf("failed to publish %s notification", event.Type)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
