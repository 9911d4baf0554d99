package chat

import "time"

type Question struct {
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
}

type Answer struct {
	Answer string `json:"answer"`
}

// Exchange is one answered question, as persisted by the caller.
type Exchange struct {
	ID       string    `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
	Lecture  string    `json:"lecture,omitempty"`
}
