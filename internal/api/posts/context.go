package posts

import (
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"
)

type detailContext struct {
	*service.PostDetail
	Form   service.CommentForm `json:"form"`
	Errors map[string]string   `json:"errors,omitempty"`
}

type postFormContext struct {
	Form   service.PostForm  `json:"form"`
	Errors map[string]string `json:"errors,omitempty"`
	IsEdit bool              `json:"is_edit"`
	Post   *model.Post       `json:"post,omitempty"`
	Groups []*model.Group    `json:"groups"`
}
