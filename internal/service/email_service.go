package service

import (
	"crypto/tls"
	"fmt"
	"html"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/config"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService 通过 SMTP 发送通知邮件，未配置 SMTP_HOST 时不发送
type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
	siteURL  string
	send     func(m *mail.Message) error
}

func NewEmailService(cfg config.Config) *EmailService {
	s := &EmailService{
		smtpHost: cfg.SMTPHost,
		smtpPort: cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		siteURL:  cfg.FrontendURL,
	}
	if s.from == "" {
		s.from = s.username
	}
	s.send = s.dialAndSend
	return s
}

func (s *EmailService) Enabled() bool {
	return s.smtpHost != ""
}

// NotifyComment 异步通知帖子作者有新评论；作者评论自己的帖子时不通知
func (s *EmailService) NotifyComment(post *model.Post, comment *model.Comment) {
	if !s.Enabled() || post.Author == nil || post.Author.Email == "" {
		return
	}
	if comment.AuthorID == post.AuthorID {
		return
	}

	m := s.commentMessage(post, comment)
	go func() {
		if err := s.send(m); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.Int("post_id", post.ID))
		}
	}()
}

func (s *EmailService) commentMessage(post *model.Post, comment *model.Comment) *mail.Message {
	commenter := "Someone"
	if comment.Author != nil {
		commenter = comment.Author.Username
	}
	link := fmt.Sprintf("%s/posts/%d/", s.siteURL, post.ID)

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", post.Author.Email)
	m.SetHeader("Subject", fmt.Sprintf("New comment on \"%s\"", post.String()))
	m.SetBody("text/html", fmt.Sprintf(
		`<p>%s commented on your post:</p><blockquote>%s</blockquote><p><a href="%s">%s</a></p>`,
		html.EscapeString(commenter), html.EscapeString(comment.Text), link, link))
	return m
}

func (s *EmailService) dialAndSend(m *mail.Message) error {
	util.Logger.Info("开始发送邮件",
		zap.String("host", s.smtpHost),
		zap.Int("port", s.smtpPort),
		zap.Strings("to", m.GetHeader("To")))

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.Strings("to", m.GetHeader("To")))
	return nil
}
