package model

import "time"

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	AuthorID  int       `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    *User     `json:"author,omitempty"`
}

func (c *Comment) String() string {
	runes := []rune(c.Text)
	if len(runes) <= ShortTextLength {
		return c.Text
	}
	return string(runes[:ShortTextLength])
}
