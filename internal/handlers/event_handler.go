package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/huddle-api/internal/domain/event"
	"github.com/gravadigital/huddle-api/internal/domain/vote"
	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/response"
	"github.com/gravadigital/huddle-api/internal/services"
)

// EventService is what the event endpoints need from the service layer
type EventService interface {
	CreateEvent(ctx context.Context, req services.CreateEventRequest) (*services.CreatedEvent, error)
	LoadEventByToken(ctx context.Context, token string) (*vote.Aggregate, error)
	Results(ctx context.Context, token string) (*services.Results, error)
	UpdateStatus(ctx context.Context, token, status string) (*event.Event, error)
}

type EventHandler struct {
	events EventService
	log    *log.Logger
}

func NewEventHandler(events EventService) *EventHandler {
	return &EventHandler{
		events: events,
		log:    logger.Handler("event"),
	}
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	created, err := h.events.CreateEvent(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to create event", "error", err)
		response.FromError(c, err, "Failed to create event")
		return
	}

	view := vote.NewAggregate(*created.Event, created.TimeSlots, created.Venues, nil, nil, nil)
	response.Success(c, http.StatusCreated, gin.H{
		"event":    view,
		"shareUrl": created.ShareURL,
	})
}

// GetEvent handles GET /api/events/:token
func (h *EventHandler) GetEvent(c *gin.Context) {
	agg, err := h.events.LoadEventByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.log.Debug("Failed to load event", "error", err)
		response.FromError(c, err, "Failed to load event")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"event": agg})
}

// GetResults handles GET /api/events/:token/results
func (h *EventHandler) GetResults(c *gin.Context) {
	results, err := h.events.Results(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.log.Debug("Failed to compute results", "error", err)
		response.FromError(c, err, "Failed to load results")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"participant_count": results.ParticipantCount,
		"time_slots":        results.TimeSlots,
		"venues":            results.Venues,
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/events/:token/status
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	updated, err := h.events.UpdateStatus(c.Request.Context(), c.Param("token"), req.Status)
	if err != nil {
		h.log.Debug("Failed to update event status", "error", err)
		response.FromError(c, err, "Failed to update event")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"event": updated})
}
