// README: Outbound email through Resend. The service depends only on Mailer.
package lead

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type Mailer interface {
	Send(ctx context.Context, msg Email) (string, error)
}

type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

// Send delivers msg and returns the provider message id.
func (m *ResendMailer) Send(ctx context.Context, msg Email) (string, error) {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}
	sent, err := m.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}
