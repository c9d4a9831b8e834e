// README: Lead submission: quote, customer confirmation, business notification, archive.
package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"removals/internal/metrics"
	"removals/internal/modules/pricing"
)

var (
	ErrMailerNotConfigured = errors.New("email service not configured")
	ErrSendFailed          = errors.New("failed to send quote")
)

// Archiver persists submitted leads. Optional.
type Archiver interface {
	Archive(ctx context.Context, r Record) error
}

type Service struct {
	mailer  Mailer
	archive Archiver
	biz     Business
	log     *slog.Logger
	now     func() time.Time
}

// NewService wires the submission flow. mailer and archive may be nil.
func NewService(mailer Mailer, archive Archiver, biz Business, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{mailer: mailer, archive: archive, biz: biz, log: log, now: time.Now}
}

func (s *Service) Configured() bool {
	return s.mailer != nil
}

func (s *Service) Business() Business {
	return s.biz
}

// Submit prices the lead and sends the two emails in order. There is no
// retry; the first failed send ends the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (pricing.Breakdown, error) {
	if !s.Configured() {
		return pricing.Breakdown{}, ErrMailerNotConfigured
	}
	b := pricing.Calculate(sub.Quote)
	metrics.QuotesCalculated.WithLabelValues(string(sub.Quote.VanSize)).Inc()

	customer, err := s.customerEmail(sub, b)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	if err := s.send(ctx, "customer", customer); err != nil {
		return pricing.Breakdown{}, err
	}

	business, err := s.businessEmail(sub, b)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	if err := s.send(ctx, "business", business); err != nil {
		return pricing.Breakdown{}, err
	}

	if s.archive != nil {
		rec := Record{
			ID:        uuid.NewString(),
			Details:   sub.Details,
			Quote:     sub.Quote,
			Total:     b.Total,
			CreatedAt: s.now().UTC(),
		}
		if err := s.archive.Archive(ctx, rec); err != nil {
			s.log.Warn("lead archive failed", "lead_id", rec.ID, "err", err)
		}
	}
	return b, nil
}

func (s *Service) customerEmail(sub Submission, b pricing.Breakdown) (Email, error) {
	html, err := RenderCustomerHTML(sub.Quote, b, sub.Details, s.biz)
	if err != nil {
		return Email{}, err
	}
	pdf, err := RenderPDF(sub.Quote, b, sub.Details, s.biz)
	if err != nil {
		return Email{}, err
	}
	return Email{
		From:        fmt.Sprintf("%s <%s>", s.biz.Name, s.biz.FromAddress),
		To:          []string{customerRecipient(sub.Details, s.biz)},
		Subject:     customerSubject(b.Total, s.biz),
		HTML:        html,
		Attachments: []Attachment{{Filename: "moving-quote.pdf", Content: pdf}},
	}, nil
}

func (s *Service) businessEmail(sub Submission, b pricing.Breakdown) (Email, error) {
	html, err := RenderBusinessHTML(sub.Quote, b, sub.Details, s.biz)
	if err != nil {
		return Email{}, err
	}
	return Email{
		From:    fmt.Sprintf("Website <%s>", s.biz.FromAddress),
		To:      []string{s.biz.Inbox},
		Subject: businessSubject(b.Total, sub.Details),
		HTML:    html,
	}, nil
}

func (s *Service) send(ctx context.Context, kind string, msg Email) error {
	id, err := s.mailer.Send(ctx, msg)
	if err != nil {
		metrics.EmailsSent.WithLabelValues(kind, "error").Inc()
		s.log.Error("email send failed", "kind", kind, "err", err)
		return fmt.Errorf("%w: %s email: %v", ErrSendFailed, kind, err)
	}
	metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
	s.log.Info("email sent", "kind", kind, "message_id", id)
	return nil
}
