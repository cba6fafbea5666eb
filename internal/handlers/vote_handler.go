package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/huddle-api/internal/domain/participant"
	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/response"
	"github.com/gravadigital/huddle-api/internal/services"
	"github.com/gravadigital/huddle-api/internal/session"
)

// VotingService is what the vote endpoint needs from the service layer
type VotingService interface {
	SubmitVote(ctx context.Context, token, sessionID string, req services.SubmitVoteRequest) (*participant.Participant, error)
}

type VoteHandler struct {
	voting VotingService
	log    *log.Logger
}

func NewVoteHandler(voting VotingService) *VoteHandler {
	return &VoteHandler{
		voting: voting,
		log:    logger.Handler("vote"),
	}
}

// SubmitVote handles POST /api/events/:token/vote. The session middleware
// must run first so email-less voters can be recognised.
func (h *VoteHandler) SubmitVote(c *gin.Context) {
	var req services.SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	p, err := h.voting.SubmitVote(c.Request.Context(), c.Param("token"), session.FromContext(c), req)
	if err != nil {
		h.log.Error("Failed to submit vote", "error", err)
		response.FromError(c, err, "Failed to submit vote")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"participant": p})
}
