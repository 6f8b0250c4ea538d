package models

import "encoding/json"

// Author is who wrote a post, comment, question or answer as seen by readers.
// It is either an identified user or anonymous; the choice is made once when
// the record is loaded and never re-derived at render time.
type Author struct {
	UserID    string
	Username  string
	Anonymous bool
}

// Identified returns an author that exposes the user's identity.
func Identified(userID, username string) Author {
	return Author{UserID: userID, Username: username}
}

// AnonymousAuthor returns an author with no identity attached.
func AnonymousAuthor() Author {
	return Author{Anonymous: true}
}

type authorJSON struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Anonymous bool   `json:"anonymous,omitempty"`
}

func (a Author) MarshalJSON() ([]byte, error) {
	if a.Anonymous {
		return json.Marshal(authorJSON{Anonymous: true})
	}
	return json.Marshal(authorJSON{ID: a.UserID, Username: a.Username})
}

func (a *Author) UnmarshalJSON(data []byte) error {
	var aj authorJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	if aj.Anonymous {
		*a = AnonymousAuthor()
		return nil
	}
	*a = Identified(aj.ID, aj.Username)
	return nil
}
