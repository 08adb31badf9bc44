package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"detailbook/models"
	"detailbook/services/flow"
	"detailbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FlowManager is the session-level booking wizard.
type FlowManager interface {
	Create(ctx context.Context) (string, flow.State, error)
	Get(ctx context.Context, sessionID string) (flow.State, error)
	Do(ctx context.Context, sessionID string, fn func(context.Context, *flow.Controller) error) (flow.State, error)
	Submit(ctx context.Context, sessionID string) (flow.SubmissionResult, flow.State, error)
	Discard(ctx context.Context, sessionID string) error
}

type FlowHandler struct {
	Flow   FlowManager
	Logger *zap.Logger
}

type sessionResponse struct {
	SessionID string     `json:"sessionId"`
	State     flow.State `json:"state"`
}

type submitResponse struct {
	SessionID string                `json:"sessionId"`
	Result    flow.SubmissionResult `json:"result"`
}

// stepRequest moves the wizard. A set action takes either a step number or
// the kind of step to jump to.
type stepRequest struct {
	Action string `json:"action" binding:"required,oneof=next previous set"`
	Step   int    `json:"step"`
	Kind   string `json:"kind"`
}

type userLookupRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type slotsRequest struct {
	Date      string `json:"date" binding:"required"`
	ServiceID string `json:"serviceId"`
	Duration  int    `json:"duration"`
}

type rebookRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// stepResponse reports whether the requested move was allowed.
type stepResponse struct {
	sessionResponse
	Moved    bool          `json:"moved"`
	StepKind flow.StepKind `json:"stepKind"`
}

func (h *FlowHandler) CreateSession(c *gin.Context) {
	id, state, err := h.Flow.Create(c.Request.Context())
	if err != nil {
		h.flowError(c, "CreateSession", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sessionResponse{SessionID: id, State: state})
}

func (h *FlowHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	state, err := h.Flow.Get(c.Request.Context(), id)
	if err != nil {
		h.flowError(c, "GetSession", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func (h *FlowHandler) UpdateForm(c *gin.Context) {
	id, key := c.Param("id"), c.Param("key")
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		utils.JSONError(c, http.StatusBadRequest, "Request body must be valid JSON", models.CodeValidation)
		return
	}

	var formErr error
	state, err := h.Flow.Do(c.Request.Context(), id, func(_ context.Context, ctrl *flow.Controller) error {
		formErr = ctrl.UpdateFormData(key, body)
		return formErr
	})
	if formErr != nil {
		utils.JSONError(c, http.StatusBadRequest, formErr.Error(), models.CodeValidation)
		return
	}
	if err != nil {
		h.flowError(c, "UpdateForm", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func (h *FlowHandler) MoveStep(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "action must be next, previous or set", models.CodeValidation)
		return
	}
	id := c.Param("id")
	moved := false
	var kind flow.StepKind
	state, err := h.Flow.Do(c.Request.Context(), id, func(_ context.Context, ctrl *flow.Controller) error {
		switch {
		case req.Action == "next":
			moved = ctrl.NextStep()
		case req.Action == "previous":
			moved = ctrl.PreviousStep()
		case req.Kind != "":
			if err := ctrl.SetStepKind(flow.StepKind(req.Kind)); err != nil {
				return err
			}
			moved = true
		default:
			ctrl.SetStep(req.Step)
			moved = true
		}
		kind = ctrl.StepKind()
		return nil
	})
	if err != nil {
		h.flowError(c, "MoveStep", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stepResponse{sessionResponse{SessionID: id, State: state}, moved, kind})
}

func (h *FlowHandler) CalculatePrice(c *gin.Context) {
	h.run(c, "CalculatePrice", func(ctx context.Context, ctrl *flow.Controller) error {
		return ctrl.CalculatePrice(ctx)
	})
}

func (h *FlowHandler) LookupUser(c *gin.Context) {
	var req userLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", models.CodeValidation)
		return
	}
	h.run(c, "LookupUser", func(ctx context.Context, ctrl *flow.Controller) error {
		return ctrl.LoadExistingUserData(ctx, req.Email, req.Phone)
	})
}

func (h *FlowHandler) LoadSlots(c *gin.Context) {
	var req slotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "date is required (YYYY-MM-DD)", models.CodeValidation)
		return
	}
	h.run(c, "LoadSlots", func(ctx context.Context, ctrl *flow.Controller) error {
		return ctrl.LoadAvailableSlots(ctx, req.Date, req.ServiceID, req.Duration)
	})
}

func (h *FlowHandler) LoadServices(c *gin.Context) {
	h.run(c, "LoadServices", func(ctx context.Context, ctrl *flow.Controller) error {
		return ctrl.LoadServices(ctx)
	})
}

func (h *FlowHandler) Rebook(c *gin.Context) {
	var req rebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "bookingId is required", models.CodeValidation)
		return
	}
	h.run(c, "Rebook", func(ctx context.Context, ctrl *flow.Controller) error {
		return ctrl.InitializeRebooking(ctx, req.BookingID)
	})
}

func (h *FlowHandler) Submit(c *gin.Context) {
	id := c.Param("id")
	result, _, err := h.Flow.Submit(c.Request.Context(), id)
	if err != nil {
		h.flowError(c, "Submit", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, submitResponse{SessionID: id, Result: result})
}

func (h *FlowHandler) DeleteSession(c *gin.Context) {
	if err := h.Flow.Discard(c.Request.Context(), c.Param("id")); err != nil {
		h.flowError(c, "DeleteSession", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlowHandler) run(c *gin.Context, name string, fn func(context.Context, *flow.Controller) error) {
	id := c.Param("id")
	state, err := h.Flow.Do(c.Request.Context(), id, fn)
	if err != nil {
		h.flowError(c, name, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

// flowError maps wizard failures onto envelopes. Backend failures without an
// API error code are reported as upstream errors.
func (h *FlowHandler) flowError(c *gin.Context, name string, err error) {
	var apiErr *models.APIError
	switch {
	case errors.Is(err, flow.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), models.CodeNotFound)
	case errors.Is(err, flow.ErrIncompleteBooking):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), models.CodeValidation)
	case errors.Is(err, flow.ErrMissingPriceInputs), errors.Is(err, flow.ErrUnknownStep):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), models.CodeValidation)
	case errors.Is(err, flow.ErrSubmissionInProgress):
		utils.JSONError(c, http.StatusConflict, err.Error(), models.CodeInvalidState)
	case errors.As(err, &apiErr):
		utils.JSONErrorFrom(c, err)
	default:
		getLogger(c, h.Logger).Error(name+": booking flow action failed",
			zap.String("sessionId", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "The booking service is unavailable. Please try again.", models.CodeUpstream)
	}
}
