package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var outreachTemplate = template.Must(template.ParseFS(templateFS, "templates/outreach.html"))

var ErrNotConfigured = errors.New("smtp not configured")

func NewEmailSender(host string, port int, user, password, from, store string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Store:    store,
	}
}

func (s *EmailSender) Configured() bool {
	return s.Host != "" && s.From != ""
}

// Render wraps a filled template text in the outreach email layout.
func (s *EmailSender) Render(text string) (string, error) {
	var body bytes.Buffer
	if err := outreachTemplate.Execute(&body, OutreachEmailData{StoreName: s.Store, Body: text}); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return body.String(), nil
}

// Send delivers one outreach email. The text is sent both as plain text
// and as the rendered HTML alternative.
func (s *EmailSender) Send(to, subject, text string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	html, err := s.Render(text)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
