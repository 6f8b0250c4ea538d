package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

type createPostInput struct {
	Title     string `json:"title" binding:"required,notblank,max=200"`
	Content   string `json:"content" binding:"max=20000"`
	Anonymous bool   `json:"anonymous"`
}

type postVoteInput struct {
	Value int `json:"value" binding:"required,oneof=-1 1"`
}

// ListPosts returns the hub's posts newest first.
func (h *Handler) ListPosts(c *gin.Context) {
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
	posts, err := h.Posts.ListByHub(ctx, hubID, filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) CreatePost(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input createPostInput
	if !bindJSON(c, &input) {
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

	post, err := h.Posts.Create(ctx, &models.Post{
		HubID:   hubID,
		OwnerID: user.ID,
		Author:  user.author(input.Anonymous),
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	post, err := h.Posts.GetByID(c.Request.Context(), postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	allowed, err := h.canModerate(c, post.HubID, post.OwnerID, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete this post"})
		return
	}

	if err := h.Posts.Delete(ctx, postID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// VotePost sets the caller's up or down vote; voting again replaces it.
func (h *Handler) VotePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input postVoteInput
	if !bindJSON(c, &input) {
		return
	}

	score, err := h.Posts.Vote(c.Request.Context(), postID, currentUser(c).ID, input.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "score": score})
}
