package domain

import "time"

// CreatedAtLayout is the layout used for Tweet.CreatedAt.
const CreatedAtLayout = "2006-01-02 15:04:05.000000"

// User is the simulated author. A run has exactly one.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// Tweet is one simulated record. Field order matches the emitted JSON.
type Tweet struct {
	CreatedAt string `json:"created_at"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	User      User   `json:"user"`
}

// NewTweet creates a tweet labelled with its category and sequence position.
func NewTweet(id string, createdAt time.Time, author User, cat Category, seq, total int) Tweet {
	return Tweet{
		CreatedAt: createdAt.Format(CreatedAtLayout),
		ID:        id,
		Text:      Label(cat, seq, total),
		User:      author,
	}
}
