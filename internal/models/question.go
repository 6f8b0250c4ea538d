package models

import "time"

type Question struct {
	ID               string    `json:"id"`
	HubID            string    `json:"hub_id"`
	Author           Author    `json:"author"`
	OwnerID          string    `json:"-"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	AcceptedAnswerID *string   `json:"accepted_answer_id"`
	CreatedAt        time.Time `json:"created_at"`
	Answers          []Answer  `json:"answers,omitempty"`
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Author     Author    `json:"author"`
	OwnerID    string    `json:"-"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
