package email

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg SMTPConfig) *EmailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestRenderActivationMail(t *testing.T) {
	svc := newTestService(t, SMTPConfig{})

	html, err := svc.Render(TemplateActivation, activationMailData{
		User:           MailUser{Name: "Ada <admin>"},
		ActivationCode: "482913",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "482913")
	assert.Contains(t, html, "Ada &lt;admin&gt;")
}

func TestRenderOrderConfirmation(t *testing.T) {
	svc := newTestService(t, SMTPConfig{})

	html, err := svc.Render(TemplateOrderConfirmation, OrderMailData{
		User: MailUser{Name: "Ada"},
		Order: OrderSummary{
			ID:          "000042",
			Date:        "March 1, 2025",
			Items:       []OrderItem{{Title: "Go in practice", Quantity: 1, Price: 29.9}},
			TotalAmount: 29.9,
		},
		DashboardURL: "http://localhost:3000/dashboard",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Go in practice")
	assert.Contains(t, html, "$29.90")
	assert.Contains(t, html, "http://localhost:3000/dashboard")
}

func TestSendWithoutCredentialsOnlyLogs(t *testing.T) {
	svc := newTestService(t, SMTPConfig{Host: "smtp.example.com", Port: 587})
	svc.deliver = func(string, []byte) error {
		t.Fatal("deliver must not be called without credentials")
		return nil
	}

	assert.NoError(t, svc.SendQuestionReply(context.Background(), "a@b.c", "Ada", "Intro"))
}

func TestSendBuildsHTMLMessage(t *testing.T) {
	svc := newTestService(t, SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer@example.com",
		Password:  "secret",
		FromName:  "LMS Support",
		FromEmail: "support@example.com",
	})

	var to string
	var msg []byte
	svc.deliver = func(toEmail string, message []byte) error {
		to, msg = toEmail, message
		return nil
	}

	require.NoError(t, svc.SendActivationEmail(context.Background(), "ada@example.com", "Ada", "123456"))
	assert.Equal(t, "ada@example.com", to)
	assert.Contains(t, string(msg), "From: LMS Support <support@example.com>\r\n")
	assert.Contains(t, string(msg), "Subject: Activate your account\r\n")
	assert.Contains(t, string(msg), "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, string(msg), "123456")
}

func TestSendPropagatesTransportError(t *testing.T) {
	svc := newTestService(t, SMTPConfig{Username: "u", Password: "p"})
	boom := errors.New("connection refused")
	svc.deliver = func(string, []byte) error { return boom }

	err := svc.SendQuestionReply(context.Background(), "a@b.c", "Ada", "Intro")
	assert.ErrorIs(t, err, boom)
}
