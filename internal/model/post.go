package model

import "time"

// ShortTextLength 帖子简短展示时保留的字符数
const ShortTextLength = 15

// Post 帖子，作者必填，分组可为空
type Post struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	AuthorID  int       `json:"author_id"`
	GroupID   *int      `json:"group_id,omitempty"`
	Author    *User     `json:"author,omitempty"`
	Group     *Group    `json:"group,omitempty"`
}

// String 返回前 15 个字符，不修改 Text
func (p *Post) String() string {
	runes := []rune(p.Text)
	if len(runes) <= ShortTextLength {
		return p.Text
	}
	return string(runes[:ShortTextLength])
}
