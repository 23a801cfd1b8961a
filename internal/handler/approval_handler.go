package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/meetsync/reservation-service/internal/dto"
	"github.com/meetsync/reservation-service/internal/service"
)

type ApprovalHandler struct {
	svc service.ApprovalService
}

func NewApprovalHandler(svc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{svc: svc}
}

func (h *ApprovalHandler) RegisterRoutes(e *echo.Echo) {
	approvals := e.Group("/api/v1/approvals")
	approvals.POST("", h.CreateApproval)
	approvals.GET("", h.ListPending)
	approvals.GET("/:id", h.GetApproval)
	approvals.POST("/:id/decision", h.Decide)
	approvals.POST("/:id/suggest-room", h.SuggestRoom)
	approvals.POST("/:id/approve-with-room", h.ApproveWithRoom)
}

// CreateApproval reopens the approval flow for a booking that is still
// pending, typically after a rejection was reconsidered.
func (h *ApprovalHandler) CreateApproval(c echo.Context) error {
	var req dto.CreateApprovalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.BookingID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "booking_id is required")
	}
	if req.RequesterID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "requester_id is required")
	}

	approval, err := h.svc.CreateApprovalRequest(c.Request().Context(), req.BookingID, req.RequesterID)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.ToApprovalResponse(approval))
}

func (h *ApprovalHandler) ListPending(c echo.Context) error {
	approvals, err := h.svc.ListPendingApprovals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ApprovalResponse, len(approvals))
	for i := range approvals {
		resp[i] = dto.ToApprovalResponse(&approvals[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ApprovalHandler) GetApproval(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	approval, err := h.svc.GetApproval(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

func (h *ApprovalHandler) Decide(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ApprovalDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ApproverID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "approver_id is required")
	}

	approval, err := h.svc.ProcessApproval(c.Request().Context(), id, req.ApproverID, req.Approve, req.Comments)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

func (h *ApprovalHandler) SuggestRoom(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.SuggestRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ApproverID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "approver_id is required")
	}
	if req.RoomID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "room_id is required")
	}

	approval, err := h.svc.SuggestAlternativeRoom(c.Request().Context(), id, req.RoomID, req.Comments, req.ApproverID)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

func (h *ApprovalHandler) ApproveWithRoom(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ApproveWithRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ApproverID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "approver_id is required")
	}
	if req.RoomID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "room_id is required")
	}

	approval, err := h.svc.ApproveWithSuggestedRoom(c.Request().Context(), id, req.RoomID, req.ApproverID)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}
