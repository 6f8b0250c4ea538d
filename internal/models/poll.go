package models

import "time"

type PollOption struct {
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

type Poll struct {
	ID        string       `json:"id"`
	HubID     string       `json:"hub_id"`
	AuthorID  string       `json:"author_id"`
	Title     string       `json:"title"`
	Options   []PollOption `json:"options"`
	CreatedAt time.Time    `json:"created_at"`

	// Voters maps a user id to the text of the option they currently hold.
	Voters map[string]string `json:"-"`
}

// OptionIndex returns the position of the option with the given text, or -1.
func (p *Poll) OptionIndex(text string) int {
	for i, opt := range p.Options {
		if opt.Text == text {
			return i
		}
	}
	return -1
}

func (p *Poll) TotalVotes() int64 {
	var total int64
	for _, opt := range p.Options {
		total += opt.Votes
	}
	return total
}
