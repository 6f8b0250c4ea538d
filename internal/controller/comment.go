package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saxenaaman628/hobbyhub/internal/models"
	"github.com/saxenaaman628/hobbyhub/internal/thread"
)

type createCommentInput struct {
	Content   string  `json:"content" binding:"required,notblank,max=5000"`
	ParentID  *string `json:"parent_id"`
	Anonymous bool    `json:"anonymous"`
}

// ListComments returns the post's discussion as a forest of reply trees.
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		h.fail(c, err)
		return
	}
	flat, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": thread.Build(flat),
		"count":    len(flat),
	})
}

// CreateComment adds a root comment, or a reply when parent_id names a
// comment of the same post.
func (h *Handler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input createCommentInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !h.requireMember(c, post.HubID, user) {
		return
	}

	if input.ParentID != nil {
		if _, err := uuid.Parse(*input.ParentID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
			return
		}
		parent, err := h.Comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if parent.PostID != postID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found on this post"})
			return
		}
	}

	comment, err := h.Comments.Create(ctx, &models.Comment{
		PostID:   postID,
		OwnerID:  user.ID,
		Author:   user.author(input.Anonymous),
		Content:  input.Content,
		ParentID: input.ParentID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	comment.Replies = []*models.Comment{}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment blanks a comment. Replies stay in place under it.
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	comment, err := h.Comments.GetByID(ctx, commentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if comment.Deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment already deleted"})
		return
	}
	if comment.OwnerID != user.ID && !user.isSiteAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete this comment"})
		return
	}

	if err := h.Comments.SoftDelete(ctx, commentID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
