package controller

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saxenaaman628/hobbyhub/internal/models"
	"github.com/saxenaaman628/hobbyhub/internal/repository"
)

// memStore is an in-memory stand-in for the postgres repositories.
type memStore struct {
	mu        sync.Mutex
	seq       int
	hubs      map[string]*models.Hub
	members   map[string]map[string]*models.HubMember
	posts     map[string]*models.Post
	postSeq   map[string]int
	votes     map[string]map[string]int
	comments  []models.Comment
	questions map[string]*models.Question
	answers   []models.Answer
}

func newMemStore() *memStore {
	return &memStore{
		hubs:      map[string]*models.Hub{},
		members:   map[string]map[string]*models.HubMember{},
		posts:     map[string]*models.Post{},
		postSeq:   map[string]int{},
		votes:     map[string]map[string]int{},
		questions: map[string]*models.Question{},
	}
}

func (s *memStore) next() time.Time {
	s.seq++
	return time.Date(2024, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

func page[T any](items []T, f repository.ListFilters) []T {
	f = f.Normalize()
	if f.Offset >= len(items) {
		return []T{}
	}
	end := f.Offset + f.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[f.Offset:end]
}

type memHubs struct{ *memStore }

func (s memHubs) Create(_ context.Context, hub *models.Hub) (*models.Hub, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hubs {
		if h.Name == hub.Name {
			return nil, fmt.Errorf("hub %q already exists: %w", hub.Name, models.ErrConflict)
		}
	}
	hub.ID = uuid.NewString()
	hub.CreatedAt = s.next()
	hub.MemberCount = 1
	stored := *hub
	s.hubs[hub.ID] = &stored
	s.members[hub.ID] = map[string]*models.HubMember{
		hub.CreatorID: {HubID: hub.ID, UserID: hub.CreatorID, Role: models.MemberRoleAdmin, JoinedAt: hub.CreatedAt},
	}
	return hub, nil
}

func (s memHubs) GetByID(_ context.Context, id string) (*models.Hub, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hubs[id]
	if !ok {
		return nil, fmt.Errorf("hub %s: %w", id, models.ErrNotFound)
	}
	out := *h
	out.MemberCount = len(s.members[id])
	return &out, nil
}

func (s memHubs) List(_ context.Context, f repository.ListFilters) ([]*models.Hub, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hubs := make([]*models.Hub, 0, len(s.hubs))
	for id, h := range s.hubs {
		out := *h
		out.MemberCount = len(s.members[id])
		hubs = append(hubs, &out)
	}
	sort.Slice(hubs, func(i, j int) bool { return hubs[i].Name < hubs[j].Name })
	return page(hubs, f), nil
}

func (s memHubs) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hubs[id]; !ok {
		return fmt.Errorf("hub %s: %w", id, models.ErrNotFound)
	}
	delete(s.hubs, id)
	delete(s.members, id)
	for pid, p := range s.posts {
		if p.HubID == id {
			delete(s.posts, pid)
		}
	}
	for qid, q := range s.questions {
		if q.HubID == id {
			delete(s.questions, qid)
		}
	}
	return nil
}

func (s memHubs) GetMember(_ context.Context, hubID, userID string) (*models.HubMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[hubID][userID]
	if !ok {
		return nil, fmt.Errorf("hub member %s: %w", userID, models.ErrNotFound)
	}
	out := *m
	return &out, nil
}

func (s memHubs) AddMember(_ context.Context, hubID, userID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hubs[hubID]; !ok {
		return fmt.Errorf("hub %s: %w", hubID, models.ErrNotFound)
	}
	if _, ok := s.members[hubID][userID]; !ok {
		s.members[hubID][userID] = &models.HubMember{HubID: hubID, UserID: userID, Role: role, JoinedAt: s.next()}
	}
	return nil
}

func (s memHubs) RemoveMember(_ context.Context, hubID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[hubID][userID]
	if !ok {
		return fmt.Errorf("hub member %s: %w", userID, models.ErrNotFound)
	}
	if m.IsAdmin() {
		admins := 0
		for _, other := range s.members[hubID] {
			if other.IsAdmin() {
				admins++
			}
		}
		if admins == 1 {
			return fmt.Errorf("user %s is the last admin of hub %s: %w", userID, hubID, models.ErrConflict)
		}
	}
	delete(s.members[hubID], userID)
	return nil
}

type memPosts struct{ *memStore }

func (s memPosts) score(id string) int {
	total := 0
	for _, v := range s.votes[id] {
		total += v
	}
	return total
}

func (s memPosts) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = uuid.NewString()
	post.CreatedAt = s.next()
	stored := *post
	s.posts[post.ID] = &stored
	s.postSeq[post.ID] = s.seq
	return post, nil
}

func (s memPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, models.ErrNotFound)
	}
	out := *p
	out.Score = s.score(id)
	return &out, nil
}

func (s memPosts) ListByHub(_ context.Context, hubID string, f repository.ListFilters) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]*models.Post, 0)
	for id, p := range s.posts {
		if p.HubID == hubID {
			out := *p
			out.Score = s.score(id)
			posts = append(posts, &out)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return s.postSeq[posts[i].ID] > s.postSeq[posts[j].ID] })
	return page(posts, f), nil
}

func (s memPosts) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, models.ErrNotFound)
	}
	delete(s.posts, id)
	return nil
}

func (s memPosts) Vote(_ context.Context, postID, userID string, value int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value != 1 && value != -1 {
		return 0, fmt.Errorf("vote value %d: %w", value, models.ErrInvalid)
	}
	if _, ok := s.posts[postID]; !ok {
		return 0, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}
	if s.votes[postID] == nil {
		s.votes[postID] = map[string]int{}
	}
	s.votes[postID][userID] = value
	return s.score(postID), nil
}

type memComments struct{ *memStore }

func (s memComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ParentID != nil {
		found := false
		for _, existing := range s.comments {
			if existing.ID == *c.ParentID {
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("post or parent comment: %w", models.ErrNotFound)
		}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.next()
	s.comments = append(s.comments, *c)
	return c, nil
}

func (s memComments) GetByID(_ context.Context, id string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
}

func (s memComments) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s memComments) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comments {
		if s.comments[i].ID == id {
			s.comments[i].Deleted = true
			s.comments[i].Content = models.DeletedCommentContent
			s.comments[i].Author = models.AnonymousAuthor()
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
}

type memQuestions struct{ *memStore }

func (s memQuestions) Create(_ context.Context, q *models.Question) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = uuid.NewString()
	q.CreatedAt = s.next()
	stored := *q
	s.questions[q.ID] = &stored
	return q, nil
}

func (s memQuestions) GetByID(_ context.Context, id string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, fmt.Errorf("question %s: %w", id, models.ErrNotFound)
	}
	out := *q
	return &out, nil
}

func (s memQuestions) ListByHub(_ context.Context, hubID string, f repository.ListFilters) ([]*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Question, 0)
	for _, q := range s.questions {
		if q.HubID == hubID {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f), nil
}

func (s memQuestions) AddAnswer(_ context.Context, a *models.Answer) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[a.QuestionID]; !ok {
		return nil, fmt.Errorf("question %s: %w", a.QuestionID, models.ErrNotFound)
	}
	a.ID = uuid.NewString()
	a.CreatedAt = s.next()
	s.answers = append(s.answers, *a)
	return a, nil
}

func (s memQuestions) GetAnswer(_ context.Context, id string) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("answer %s: %w", id, models.ErrNotFound)
}

func (s memQuestions) ListAnswers(_ context.Context, questionID string) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Answer, 0)
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s memQuestions) AcceptAnswer(_ context.Context, questionID, answerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[questionID]
	if !ok {
		return fmt.Errorf("question %s: %w", questionID, models.ErrNotFound)
	}
	for _, a := range s.answers {
		if a.ID == answerID && a.QuestionID == questionID {
			id := answerID
			q.AcceptedAnswerID = &id
			return nil
		}
	}
	return fmt.Errorf("answer %s: %w", answerID, models.ErrNotFound)
}
