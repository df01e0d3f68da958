package service

import "mime/multipart"

// PostForm 创建和编辑帖子的表单；Group 为分组 ID 的字符串形式，空串表示不分组
type PostForm struct {
	Text  string                `form:"text" json:"text" validate:"notblank"`
	Group string                `form:"group" json:"group"`
	Image *multipart.FileHeader `form:"-" json:"-"`
}

type CommentForm struct {
	Text string `form:"text" json:"text" validate:"notblank"`
}

type SignupForm struct {
	Username        string `form:"username" json:"username" validate:"notblank,max=150"`
	Email           string `form:"email" json:"email" validate:"omitempty,email"`
	Password        string `form:"password1" json:"-" validate:"required,min=8"`
	PasswordConfirm string `form:"password2" json:"-" validate:"eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" json:"username" validate:"notblank"`
	Password string `form:"password" json:"-" validate:"required"`
}

type GroupForm struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=200"`
	Slug        string `form:"slug" json:"slug" validate:"required,max=50,slug"`
	Description string `form:"description" json:"description" validate:"notblank"`
}
