package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	TemplateActivation        = "activation-mail.html"
	TemplateOrderConfirmation = "order-confirmation.html"
	TemplateQuestionReply     = "question-reply.html"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendActivationEmail(ctx context.Context, toEmail, toName, activationCode string) error
	SendOrderConfirmation(ctx context.Context, toEmail string, data OrderMailData) error
	SendQuestionReply(ctx context.Context, toEmail, toName, contentTitle string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// MailUser is the recipient block shared by the templates
type MailUser struct {
	Name string
}

// OrderItem is one purchased line of an order confirmation
type OrderItem struct {
	Title    string
	Quantity int
	Price    float64
}

// OrderSummary is the order block of an order confirmation
type OrderSummary struct {
	ID          string
	Date        string
	Items       []OrderItem
	TotalAmount float64
}

// OrderMailData is the data rendered into the order confirmation template
type OrderMailData struct {
	User         MailUser
	Order        OrderSummary
	DashboardURL string
}

type activationMailData struct {
	User           MailUser
	ActivationCode string
}

type questionReplyData struct {
	Name  string
	Title string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config    SMTPConfig
	logger    zerolog.Logger
	templates *template.Template
	// deliver hands a fully built message to the transport
	deliver func(toEmail string, message []byte) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) (*EmailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	s := &EmailServiceImpl{
		config:    config,
		logger:    logger,
		templates: tmpl,
	}
	s.deliver = s.sendSMTP
	return s, nil
}

// SendActivationEmail sends the activation code to a newly registered user
func (s *EmailServiceImpl) SendActivationEmail(ctx context.Context, toEmail, toName, activationCode string) error {
	return s.SendTemplate(ctx, toEmail, "Activate your account", TemplateActivation, activationMailData{
		User:           MailUser{Name: toName},
		ActivationCode: activationCode,
	})
}

// SendOrderConfirmation sends the receipt of a course purchase
func (s *EmailServiceImpl) SendOrderConfirmation(ctx context.Context, toEmail string, data OrderMailData) error {
	return s.SendTemplate(ctx, toEmail, "🎉 Order Confirmed", TemplateOrderConfirmation, data)
}

// SendQuestionReply tells a question author that someone answered
func (s *EmailServiceImpl) SendQuestionReply(ctx context.Context, toEmail, toName, contentTitle string) error {
	return s.SendTemplate(ctx, toEmail, "Question Reply", TemplateQuestionReply, questionReplyData{
		Name:  toName,
		Title: contentTitle,
	})
}

// Render executes the named template with data
func (s *EmailServiceImpl) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// SendTemplate renders a template and sends it as an HTML email
func (s *EmailServiceImpl) SendTemplate(ctx context.Context, toEmail, subject, name string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.Render(name, data)
	if err != nil {
		return err
	}

	// Without credentials mails are only logged (local development)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Str("template", name).
			Interface("data", data).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	return s.deliver(toEmail, s.buildMessage(toEmail, subject, body))
}

func (s *EmailServiceImpl) fromAddress() string {
	if s.config.FromEmail != "" {
		return s.config.FromEmail
	}
	return s.config.Username
}

func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.config.FromName), s.fromAddress())},
		{"To", toEmail},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var sb strings.Builder
	for _, h := range headers {
		sb.WriteString(h[0])
		sb.WriteString(": ")
		sb.WriteString(h[1])
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}

// sendSMTP uses implicit TLS on port 465 and STARTTLS through smtp.SendMail otherwise
func (s *EmailServiceImpl) sendSMTP(toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.Port != 465 {
		if err := smtp.SendMail(serverAddress, auth, s.fromAddress(), []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.fromAddress()); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
