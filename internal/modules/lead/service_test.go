package lead

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"removals/internal/modules/pricing"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []Email
	failAt int // 1-based send index that fails; 0 never fails
}

func (f *fakeMailer) Send(_ context.Context, msg Email) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.failAt == len(f.sent) {
		return "", errors.New("provider down")
	}
	return "msg_" + msg.Subject, nil
}

type fakeArchive struct {
	records []Record
	err     error
}

func (f *fakeArchive) Archive(_ context.Context, r Record) error {
	f.records = append(f.records, r)
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleSubmission() Submission {
	return Submission{
		Details: Details{Name: "Ana", Phone: "07123456789", Email: "ana@example.com"},
		Quote:   pricing.QuoteRequest{VanSize: pricing.VanLarge, LoaderCount: 2, RequestedHours: 2, Miles: 25},
	}
}

func TestService_SubmitNotConfigured(t *testing.T) {
	s := NewService(nil, nil, DefaultBusiness(), quietLogger())
	if s.Configured() {
		t.Fatal("Configured() = true with nil mailer")
	}
	if _, err := s.Submit(context.Background(), sampleSubmission()); !errors.Is(err, ErrMailerNotConfigured) {
		t.Fatalf("Submit() error = %v, want ErrMailerNotConfigured", err)
	}
}

func TestService_SubmitSendsBothEmails(t *testing.T) {
	m := &fakeMailer{}
	a := &fakeArchive{}
	s := NewService(m, a, DefaultBusiness(), quietLogger())

	b, err := s.Submit(context.Background(), sampleSubmission())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if b.Total != 237.5 {
		t.Errorf("Total = %v, want 237.5", b.Total)
	}
	if len(m.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(m.sent))
	}

	customer, business := m.sent[0], m.sent[1]
	if customer.To[0] != "ana@example.com" {
		t.Errorf("customer To = %v", customer.To)
	}
	if customer.From != "Mudanzas Edyta London <quotes@mudanzasedytalondon.com>" {
		t.Errorf("customer From = %q", customer.From)
	}
	if len(customer.Attachments) != 1 || !bytes.HasPrefix(customer.Attachments[0].Content, []byte("%PDF-")) {
		t.Errorf("customer email missing pdf attachment")
	}
	if business.To[0] != "info@mudanzasedytalondon.com" {
		t.Errorf("business To = %v", business.To)
	}
	if business.Subject != "New Quote Request - £237.50 from Ana" {
		t.Errorf("business Subject = %q", business.Subject)
	}

	if len(a.records) != 1 {
		t.Fatalf("archived %d records, want 1", len(a.records))
	}
	if rec := a.records[0]; rec.ID == "" || rec.Total != 237.5 || rec.CreatedAt.IsZero() {
		t.Errorf("archived record = %+v", rec)
	}
}

func TestService_SubmitStopsOnFirstFailure(t *testing.T) {
	m := &fakeMailer{failAt: 1}
	a := &fakeArchive{}
	s := NewService(m, a, DefaultBusiness(), quietLogger())

	if _, err := s.Submit(context.Background(), sampleSubmission()); !errors.Is(err, ErrSendFailed) {
		t.Fatalf("Submit() error = %v, want ErrSendFailed", err)
	}
	if len(m.sent) != 1 {
		t.Errorf("sent %d emails, want 1", len(m.sent))
	}
	if len(a.records) != 0 {
		t.Errorf("archived a failed submission")
	}
}

func TestService_SubmitBusinessFailure(t *testing.T) {
	m := &fakeMailer{failAt: 2}
	s := NewService(m, nil, DefaultBusiness(), quietLogger())

	if _, err := s.Submit(context.Background(), sampleSubmission()); !errors.Is(err, ErrSendFailed) {
		t.Fatalf("Submit() error = %v, want ErrSendFailed", err)
	}
	if len(m.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(m.sent))
	}
}

func TestService_ArchiveFailureIsIgnored(t *testing.T) {
	m := &fakeMailer{}
	a := &fakeArchive{err: errors.New("db down")}
	s := NewService(m, a, DefaultBusiness(), quietLogger())

	if _, err := s.Submit(context.Background(), sampleSubmission()); err != nil {
		t.Fatalf("Submit() error = %v, want nil", err)
	}
}
