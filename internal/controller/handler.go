package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saxenaaman628/hobbyhub/internal/metrics"
	"github.com/saxenaaman628/hobbyhub/internal/models"
	"github.com/saxenaaman628/hobbyhub/internal/repository"
)

// Handler serves the hub, post, comment, poll and question routes.
type Handler struct {
	Hubs      repository.HubRepository
	Posts     repository.PostRepository
	Comments  repository.CommentRepository
	Questions repository.QuestionRepository
	Polls     repository.PollRepository
	Metrics   *metrics.Metrics
	Logger    *logrus.Logger
}

// RegisterValidators adds the custom binding tags used by request payloads.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("notblank", validators.NotBlank)
}

// fail writes the response for err. Known domain errors become 4xx with the
// error text; anything else is logged and hidden behind a 500.
func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps the models error taxonomy to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyVoted), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type caller struct {
	ID       string
	Username string
	Role     string
}

func (u caller) isSiteAdmin() bool { return u.Role == models.RoleAdmin }

func currentUser(c *gin.Context) caller {
	return caller{
		ID:       c.GetString("userID"),
		Username: c.GetString("username"),
		Role:     c.GetString("role"),
	}
}

// author resolves how a new record's author is shown to readers.
func (u caller) author(anonymous bool) models.Author {
	if anonymous {
		return models.AnonymousAuthor()
	}
	return models.Identified(u.ID, u.Username)
}

// pathID reads a uuid path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return "", false
	}
	return raw, true
}

// listFilters reads the limit and offset query parameters.
func listFilters(c *gin.Context) (repository.ListFilters, bool) {
	var f repository.ListFilters
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &f.Limit}, {"offset", &f.Offset}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + p.name})
			return f, false
		}
		*p.dst = n
	}
	return f.Normalize(), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// membership returns the caller's membership of the hub, or nil when the
// caller has not joined it.
func (h *Handler) membership(c *gin.Context, hubID string, user caller) (*models.HubMember, error) {
	m, err := h.Hubs.GetMember(c.Request.Context(), hubID, user.ID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return m, err
}

// requireMember writes a 403 and returns false when the caller is not a
// member of the hub.
func (h *Handler) requireMember(c *gin.Context, hubID string, user caller) bool {
	m, err := h.membership(c, hubID, user)
	if err != nil {
		h.fail(c, err)
		return false
	}
	if m == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Join the hub first"})
		return false
	}
	return true
}

// canModerate reports whether user may remove content owned by ownerID in
// the hub: the owner, a hub admin or a site admin.
func (h *Handler) canModerate(c *gin.Context, hubID, ownerID string, user caller) (bool, error) {
	if user.ID == ownerID || user.isSiteAdmin() {
		return true, nil
	}
	m, err := h.membership(c, hubID, user)
	if err != nil {
		return false, err
	}
	return m.IsAdmin(), nil
}

// RegisterRoutes mounts the handlers on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/hubs", h.ListHubs)
	rg.POST("/hubs", h.CreateHub)
	rg.GET("/hubs/:id", h.GetHub)
	rg.DELETE("/hubs/:id", h.DeleteHub)
	rg.POST("/hubs/:id/join", h.JoinHub)
	rg.POST("/hubs/:id/leave", h.LeaveHub)

	rg.GET("/hubs/:id/posts", h.ListPosts)
	rg.POST("/hubs/:id/posts", h.CreatePost)
	rg.GET("/posts/:id", h.GetPost)
	rg.DELETE("/posts/:id", h.DeletePost)
	rg.POST("/posts/:id/vote", h.VotePost)

	rg.GET("/posts/:id/comments", h.ListComments)
	rg.POST("/posts/:id/comments", h.CreateComment)
	rg.DELETE("/comments/:id", h.DeleteComment)

	rg.GET("/hubs/:id/polls", h.ListPolls)
	rg.POST("/hubs/:id/polls", h.CreatePoll)
	rg.GET("/polls/:id", h.GetPollByID)
	rg.DELETE("/polls/:id", h.DeletePoll)
	rg.POST("/polls/:id/vote", h.VoteHandler)

	rg.GET("/hubs/:id/questions", h.ListQuestions)
	rg.POST("/hubs/:id/questions", h.CreateQuestion)
	rg.GET("/questions/:id", h.GetQuestion)
	rg.POST("/questions/:id/answers", h.CreateAnswer)
	rg.POST("/questions/:id/accept", h.AcceptAnswer)
}
