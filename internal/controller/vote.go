package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

// VotePayload is the expected vote request
type VotePayload struct {
	Option string `json:"option" binding:"required"`
}

// VoteHandler casts or switches the caller's vote on a poll. Voting again for
// the option already held is rejected with 409.
func (h *Handler) VoteHandler(c *gin.Context) {
	pollID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var payload VotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote payload"})
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	poll, err := h.Polls.Get(ctx, pollID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !h.requireMember(c, poll.HubID, user) {
		return
	}

	res, err := h.Polls.CastVote(ctx, pollID, user.ID, payload.Option)
	if err != nil {
		h.countVote(voteOutcome(err))
		h.fail(c, err)
		return
	}
	h.countVote(string(res.Outcome))

	body := gin.H{
		"outcome": res.Outcome,
		"poll":    viewPoll(&res.Poll, user.ID),
	}
	if res.Previous != "" {
		body["previous"] = res.Previous
	}
	c.JSON(http.StatusOK, body)
}

func voteOutcome(err error) string {
	switch {
	case errors.Is(err, models.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func (h *Handler) countVote(outcome string) {
	if h.Metrics != nil {
		h.Metrics.PollVotes.WithLabelValues(outcome).Inc()
	}
}
