package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

type createHubInput struct {
	Name        string `json:"name" binding:"required,notblank,min=3,max=64"`
	Description string `json:"description" binding:"max=1000"`
}

func (h *Handler) ListHubs(c *gin.Context) {
	filters, ok := listFilters(c)
	if !ok {
		return
	}
	hubs, err := h.Hubs.List(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hubs": hubs})
}

// CreateHub creates a hub; the caller becomes its first admin.
func (h *Handler) CreateHub(c *gin.Context) {
	var input createHubInput
	if !bindJSON(c, &input) {
		return
	}

	hub, err := h.Hubs.Create(c.Request.Context(), &models.Hub{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   currentUser(c).ID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, hub)
}

func (h *Handler) GetHub(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	hub, err := h.Hubs.GetByID(c.Request.Context(), hubID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hub)
}

// DeleteHub removes the hub with everything posted in it. Only hub admins
// and site admins may do this.
func (h *Handler) DeleteHub(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	if _, err := h.Hubs.GetByID(ctx, hubID); err != nil {
		h.fail(c, err)
		return
	}

	if !user.isSiteAdmin() {
		m, err := h.membership(c, hubID, user)
		if err != nil {
			h.fail(c, err)
			return
		}
		if !m.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only hub admins can delete a hub"})
			return
		}
	}

	// Polls go first so a redis failure leaves the hub intact.
	if err := h.Polls.DeleteByHub(ctx, hubID); err != nil {
		h.fail(c, fmt.Errorf("failed to delete polls of hub %s: %w", hubID, err))
		return
	}
	if err := h.Hubs.Delete(ctx, hubID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hub deleted successfully"})
}

func (h *Handler) JoinHub(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.Hubs.GetByID(ctx, hubID); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Hubs.AddMember(ctx, hubID, currentUser(c).ID, models.MemberRoleMember); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined hub"})
}

func (h *Handler) LeaveHub(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Hubs.RemoveMember(c.Request.Context(), hubID, currentUser(c).ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left hub"})
}
