package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/meetsync/reservation-service/internal/dto"
	"github.com/meetsync/reservation-service/internal/models"
	"github.com/meetsync/reservation-service/internal/repository"
	"github.com/meetsync/reservation-service/internal/service"
)

type BookingHandler struct {
	svc   service.BookingService
	rooms repository.RoomRepository
}

func NewBookingHandler(svc service.BookingService, rooms repository.RoomRepository) *BookingHandler {
	return &BookingHandler{svc: svc, rooms: rooms}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("/:id", h.GetBooking)
	bookings.PUT("/:id", h.UpdateBooking)
	bookings.DELETE("/:id", h.CancelBooking)
	bookings.POST("/:id/end", h.EndMeeting)
	bookings.POST("/:id/extend", h.ExtendMeeting)
	bookings.PUT("/:id/attendees", h.UpdateAttendee)

	rooms := e.Group("/api/v1/rooms")
	rooms.GET("", h.ListRooms)
	rooms.GET("/:id/bookings", h.ListRoomBookings)

	e.GET("/api/v1/users/:id/bookings", h.ListUserBookings)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.OrganizerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "organizer_id is required")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), toCreateRequest(req))
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	attendees := make([]service.AttendeeRequest, len(req.Attendees))
	for i, a := range req.Attendees {
		attendees[i] = service.AttendeeRequest{UserID: a.UserID, Role: a.Role}
	}

	booking, err := h.svc.UpdateBooking(c.Request().Context(), id, service.UpdateBookingRequest{
		RoomID:    req.RoomID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Attendees: attendees,
	})
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) EndMeeting(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.EndMeetingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RequesterID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "requester_id is required")
	}

	booking, err := h.svc.EndMeetingEarly(c.Request().Context(), id, req.RequesterID)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ExtendMeeting(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ExtendMeetingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RequesterID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "requester_id is required")
	}

	booking, err := h.svc.ExtendMeeting(c.Request().Context(), id, req.RequesterID, req.NewEndTime)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateAttendee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateAttendeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	attendee, err := h.svc.UpdateAttendeeStatus(c.Request().Context(), id, req.UserID, models.AttendeeStatus(req.Status), req.Role)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToAttendeeResponse(attendee))
}

func (h *BookingHandler) ListRooms(c echo.Context) error {
	rooms, err := h.rooms.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		resp[i] = dto.ToRoomResponse(&rooms[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ListRoomBookings(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	from, to, err := parseRange(c)
	if err != nil {
		return err
	}

	bookings, err := h.svc.ListRoomBookings(c.Request().Context(), uint(roomID), from, to)
	if err != nil {
		return bookingError(c, err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ListUserBookings(c echo.Context) error {
	userID := c.Param("id")
	bookings, err := h.svc.ListUserBookings(c.Request().Context(), userID)
	if err != nil {
		return bookingError(c, err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func toCreateRequest(req dto.CreateBookingRequest) service.CreateBookingRequest {
	attendees := make([]service.AttendeeRequest, len(req.Attendees))
	for i, a := range req.Attendees {
		attendees[i] = service.AttendeeRequest{UserID: a.UserID, Role: a.Role}
	}
	return service.CreateBookingRequest{
		RoomID:      req.RoomID,
		OrganizerID: req.OrganizerID,
		Title:       req.Title,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsEmergency: req.IsEmergency,
		Attendees:   attendees,
	}
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	return uint(id), nil
}

func parseRange(c echo.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid from time")
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid to time")
		}
		to = t
	}
	return from, to, nil
}

// bookingError maps service errors to HTTP responses; conflicts carry their
// detail payloads so the UI can tell the requester what blocked them.
func bookingError(c echo.Context, err error) error {
	var roomConflict *service.RoomConflictError
	if errors.As(err, &roomConflict) {
		return c.JSON(http.StatusConflict, dto.ConflictResponse{
			Message:      roomConflict.Error(),
			RoomConflict: &roomConflict.Conflict,
		})
	}
	var attendeeConflict *service.AttendeeConflictError
	if errors.As(err, &attendeeConflict) {
		return c.JSON(http.StatusConflict, dto.ConflictResponse{
			Message:           attendeeConflict.Error(),
			AttendeeConflicts: attendeeConflict.Conflicts,
		})
	}

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrRoomNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRoomConflict), errors.Is(err, service.ErrAttendeeConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrPastBooking),
		errors.Is(err, service.ErrDurationTooShort),
		errors.Is(err, service.ErrDurationTooLong),
		errors.Is(err, service.ErrOutsideBusinessHours),
		errors.Is(err, service.ErrRoomUnavailable),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrMeetingStarted),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrApprovalExists):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
