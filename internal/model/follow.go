package model

import "time"

// Follow 关注关系：UserID 关注 AuthorID，(UserID, AuthorID) 唯一
type Follow struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	AuthorID  int       `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
