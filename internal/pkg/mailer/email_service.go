package mailer

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEmail(toEmail, subject, content string) error
	SendTranscript(toEmail string, transcript Transcript) error
}

type Transcript struct {
	SessionId uint
	Title     string
	Lines     []TranscriptLine
}

type TranscriptLine struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), username, senderName)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName string) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendEmail(toEmail, subject, content string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendTranscript(toEmail string, transcript Transcript) error {
	subject := fmt.Sprintf("Chat transcript: %s", transcript.Title)
	return s.SendEmail(toEmail, subject, RenderTranscript(transcript))
}

// RenderTranscript writes one "role: content" block per message in the given order.
func RenderTranscript(t Transcript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (session #%d)\n\n", t.Title, t.SessionId)
	if len(t.Lines) == 0 {
		b.WriteString("No messages yet.\n")
		return b.String()
	}
	for _, line := range t.Lines {
		fmt.Fprintf(&b, "[%s] %s: %s\n", line.CreatedAt.UTC().Format(time.RFC3339), line.Role, line.Content)
	}
	return b.String()
}
