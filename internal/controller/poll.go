package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

const (
	minPollOptions = 2
	maxPollOptions = 10
)

type createPollInput struct {
	Title   string   `json:"title" binding:"required,notblank,max=200"`
	Options []string `json:"options" binding:"required,min=2,max=10,dive,notblank,max=100"`
}

// pollView is a poll as shown to one user.
type pollView struct {
	*models.Poll
	TotalVotes int64   `json:"total_votes"`
	MyVote     *string `json:"my_vote"`
}

func viewPoll(poll *models.Poll, userID string) pollView {
	v := pollView{Poll: poll, TotalVotes: poll.TotalVotes()}
	if choice, ok := poll.Voters[userID]; ok {
		v.MyVote = &choice
	}
	return v
}

// normalizeOptions trims the option texts and rejects duplicates.
func normalizeOptions(raw []string) ([]models.PollOption, bool) {
	seen := make(map[string]bool, len(raw))
	options := make([]models.PollOption, 0, len(raw))
	for _, text := range raw {
		text = strings.TrimSpace(text)
		if text == "" || seen[text] {
			return nil, false
		}
		seen[text] = true
		options = append(options, models.PollOption{Text: text})
	}
	return options, len(options) >= minPollOptions && len(options) <= maxPollOptions
}

// ListPolls returns the hub's polls newest first.
func (h *Handler) ListPolls(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	filters, ok := listFilters(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.Hubs.GetByID(ctx, hubID); err != nil {
		h.fail(c, err)
		return
	}
	polls, err := h.Polls.ListByHub(ctx, hubID, filters)
	if err != nil {
		h.fail(c, err)
		return
	}

	userID := currentUser(c).ID
	views := make([]pollView, 0, len(polls))
	for _, p := range polls {
		views = append(views, viewPoll(p, userID))
	}
	c.JSON(http.StatusOK, gin.H{"polls": views})
}

func (h *Handler) CreatePoll(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input createPollInput
	if !bindJSON(c, &input) {
		return
	}
	options, ok := normalizeOptions(input.Options)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Poll options must be 2 to 10 distinct non-empty texts"})
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	if _, err := h.Hubs.GetByID(ctx, hubID); err != nil {
		h.fail(c, err)
		return
	}
	if !h.requireMember(c, hubID, user) {
		return
	}

	poll := &models.Poll{
		ID:        uuid.New().String(),
		HubID:     hubID,
		AuthorID:  user.ID,
		Title:     strings.TrimSpace(input.Title),
		Options:   options,
		CreatedAt: time.Now().UTC(),
		Voters:    map[string]string{},
	}
	if err := h.Polls.Create(ctx, poll); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewPoll(poll, user.ID))
}

// GetPollByID returns the poll with its counts and the caller's current choice.
func (h *Handler) GetPollByID(c *gin.Context) {
	pollID, ok := pathID(c, "id")
	if !ok {
		return
	}
	poll, err := h.Polls.Get(c.Request.Context(), pollID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewPoll(poll, currentUser(c).ID))
}

func (h *Handler) DeletePoll(c *gin.Context) {
	pollID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	poll, err := h.Polls.Get(ctx, pollID)
	if err != nil {
		h.fail(c, err)
		return
	}
	allowed, err := h.canModerate(c, poll.HubID, poll.AuthorID, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete this poll"})
		return
	}

	if err := h.Polls.Delete(ctx, pollID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Poll deleted successfully"})
}
