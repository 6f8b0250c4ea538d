package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

type createQuestionInput struct {
	Title string `json:"title" binding:"required,notblank,max=200"`
	Body  string `json:"body" binding:"max=20000"`
}

type createAnswerInput struct {
	Body string `json:"body" binding:"required,notblank,max=20000"`
}

type acceptAnswerInput struct {
	AnswerID string `json:"answer_id" binding:"required"`
}

func (h *Handler) ListQuestions(c *gin.Context) {
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
	questions, err := h.Questions.ListByHub(ctx, hubID, filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *Handler) CreateQuestion(c *gin.Context) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input createQuestionInput
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

	q, err := h.Questions.Create(ctx, &models.Question{
		HubID:   hubID,
		OwnerID: user.ID,
		Author:  user.author(false),
		Title:   input.Title,
		Body:    input.Body,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// GetQuestion returns the question with its answers, oldest first.
func (h *Handler) GetQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	q, err := h.Questions.GetByID(ctx, questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	answers, err := h.Questions.ListAnswers(ctx, questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	q.Answers = answers
	c.JSON(http.StatusOK, q)
}

func (h *Handler) CreateAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input createAnswerInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	q, err := h.Questions.GetByID(ctx, questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !h.requireMember(c, q.HubID, user) {
		return
	}

	a, err := h.Questions.AddAnswer(ctx, &models.Answer{
		QuestionID: questionID,
		OwnerID:    user.ID,
		Author:     user.author(false),
		Body:       input.Body,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// AcceptAnswer lets the question's author mark one of its answers accepted.
func (h *Handler) AcceptAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input acceptAnswerInput
	if !bindJSON(c, &input) {
		return
	}
	if _, err := uuid.Parse(input.AnswerID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}
	ctx := c.Request.Context()

	q, err := h.Questions.GetByID(ctx, questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if q.OwnerID != currentUser(c).ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the question's author can accept an answer"})
		return
	}

	if err := h.Questions.AcceptAnswer(ctx, questionID, input.AnswerID); err != nil {
		h.fail(c, err)
		return
	}
	q.AcceptedAnswerID = &input.AnswerID
	c.JSON(http.StatusOK, q)
}
