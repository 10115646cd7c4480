package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createForCustomerRequest struct {
	CustomerUsername string `json:"customer_username"`
	FlightID         int64  `json:"flight_id"`
	NumSeats         int    `json:"num_seats"`
}

type cancelSeatsRequest struct {
	UserID   int64 `json:"user_id"`
	NumSeats int   `json:"num_seats"`
}

type modifyBookingRequest struct {
	NumSeats int `json:"num_seats"`
}

type passengerRequest struct {
	Name            string `json:"name"`
	PassportNumber  string `json:"passport_number"`
	DateOfBirth     string `json:"date_of_birth"`
	SpecialRequests string `json:"special_requests"`
}

type bookingResponse struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	UserID    int64  `json:"user_id"`
	FlightID  int64  `json:"flight_id"`
	NumSeats  int    `json:"num_seats"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type cancelResponse struct {
	FlightID       int64 `json:"flight_id"`
	SeatsCancelled int   `json:"seats_cancelled"`
	BookingDeleted bool  `json:"booking_deleted"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.POST("/customer", h.createForCustomer)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.modify)
	router.DELETE("/:id", h.agentCancel)
	router.POST("/:id/payment", h.pay)
	router.POST("/:id/cancel", h.cancel)
	router.POST("/:id/passengers", h.attachPassenger)
	router.GET("/:id/passengers", h.listPassengers)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		Reference: b.Reference,
		UserID:    b.UserID,
		FlightID:  b.FlightID,
		NumSeats:  b.NumSeats,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) createForCustomer(c *gin.Context) {
	var req createForCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBookingForCustomer(c.Request.Context(), req.CustomerUsername, req.FlightID, req.NumSeats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

// list returns one user's bookings with ?user_id, or every booking for
// staff with ?acting_user_id.
func (h *BookingHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		bookings, err := h.service.ListBookingsForUser(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
		return
	}

	actingUserID, err := strconv.ParseInt(c.Query("acting_user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id or acting_user_id is required"})
		return
	}
	bookings, err := h.service.ListAllBookings(ctx, actingUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBookingByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) modify(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req modifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.ModifyBooking(c.Request.Context(), id, req.NumSeats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) agentCancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	outcome, err := h.service.AgentCancelBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelResponse{
		FlightID:       outcome.FlightID,
		SeatsCancelled: outcome.SeatsCancelled,
		BookingDeleted: outcome.BookingDeleted,
	})
}

func (h *BookingHandler) pay(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	result, err := h.service.ProcessPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.AlreadyPaid && !result.Captured {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment declined"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":      toBookingResponse(result.Booking),
		"already_paid": result.AlreadyPaid,
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req cancelSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.service.CancelSeats(c.Request.Context(), req.UserID, id, req.NumSeats, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelResponse{
		FlightID:       outcome.FlightID,
		SeatsCancelled: outcome.SeatsCancelled,
		BookingDeleted: outcome.BookingDeleted,
	})
}

func (h *BookingHandler) attachPassenger(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req passengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passenger := &domain.Passenger{
		Name:            req.Name,
		PassportNumber:  req.PassportNumber,
		DateOfBirth:     req.DateOfBirth,
		SpecialRequests: req.SpecialRequests,
	}
	if err := h.service.AttachPassenger(c.Request.Context(), id, passenger); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, passenger)
}

func (h *BookingHandler) listPassengers(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	passengers, err := h.service.ListPassengers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passengers)
}
