package server

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifeinfocus/focus/internal/config"
)

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (m *ContactMessage) complete() bool {
	return strings.TrimSpace(m.Name) != "" &&
		validEmail(m.Email) &&
		strings.TrimSpace(m.Message) != ""
}

// validEmail reports whether s is a single bare address that is safe to
// place in a header.
func validEmail(s string) bool {
	if strings.ContainsAny(s, "\r\n") {
		return false
	}

	addr, err := mail.ParseAddress(s)

	return err == nil && addr.Address == strings.TrimSpace(s)
}

// Mailer delivers contact form messages.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}

type sendFunc func(
	addr string,
	a smtp.Auth,
	from string,
	to []string,
	msg []byte,
) error

// SMTPMailer sends contact form messages through an SMTP relay with PLAIN
// authentication.
type SMTPMailer struct {
	now  func() time.Time
	send sendFunc
	cfg  config.MailConfig
}

// NewSMTPMailer returns a mailer for the given settings. Messages go to
// cfg.To, or back to cfg.User when no recipient is set.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:  cfg,
		now:  time.Now,
		send: smtp.SendMail,
	}
}

func (m *SMTPMailer) recipient() string {
	if m.cfg.To != "" {
		return m.cfg.To
	}

	return m.cfg.User
}

func (m *SMTPMailer) Send(ctx context.Context, msg ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := m.compose(msg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)

	return m.send(addr, auth, m.cfg.User, []string{m.recipient()}, body)
}

// compose renders the message as a multipart/alternative email.
func (m *SMTPMailer) compose(msg ContactMessage) ([]byte, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	header := []struct{ key, value string }{
		{"From", m.cfg.User},
		{"To", m.recipient()},
		{"Reply-To", msg.Email},
		{"Subject", mime.QEncoding.Encode("utf-8", "New message from "+msg.Name)},
		{"Date", m.now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + mw.Boundary()},
	}

	for _, h := range header {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.key, h.value)
	}

	buf.WriteString("\r\n")

	text := fmt.Sprintf(
		"Name: %s\r\nEmail: %s\r\nMessage: %s\r\n",
		msg.Name,
		msg.Email,
		msg.Message,
	)

	htmlBody := fmt.Sprintf(
		"<h3>New Contact Form Message</h3>\r\n"+
			"<p><strong>Name:</strong> %s</p>\r\n"+
			"<p><strong>Email:</strong> %s</p>\r\n"+
			"<p><strong>Message:</strong></p>\r\n"+
			"<p>%s</p>\r\n",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Message),
	)

	parts := []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", text},
		{"text/html; charset=utf-8", htmlBody},
	}

	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type": {p.contentType},
		})
		if err != nil {
			return nil, err
		}

		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *Server) sendEmail(c *gin.Context) {
	var msg ContactMessage

	if err := c.ShouldBindJSON(&msg); err != nil || !msg.complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	if s.mailer == nil {
		s.logger.ErrorContext(c.Request.Context(), "email relay is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email"})

		return
	}

	if err := s.mailer.Send(c.Request.Context(), msg); err != nil {
		s.logger.ErrorContext(c.Request.Context(), "sending email failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email"})

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message sent, we will be in touch.",
	})
}
