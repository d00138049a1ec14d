package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portal-xml/backend/internal/audit/domain"
)

type memAuditRepo struct {
	mu      sync.Mutex
	records []*domain.Record
	failing bool
}

func (r *memAuditRepo) Create(ctx context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("storage down")
	}
	r.records = append(r.records, rec)
	return nil
}

type recordingEmitter struct {
	ch chan *domain.Record
}

func (e *recordingEmitter) Emit(ctx context.Context, rec *domain.Record) error {
	e.ch <- rec
	return nil
}

func (e *recordingEmitter) Close() error { return nil }

func TestRecorder_PersistsRecord(t *testing.T) {
	repo := &memAuditRepo{}
	rec := NewRecorder(repo, func(context.Context) string { return "203.0.113.9" }, nil)

	rec.Record(context.Background(), Entry{
		Identifier: "contador@example.com",
		Action:     domain.ActionOTPRequest,
		Result:     domain.ResultIssued,
	})

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.records) != 1 {
		t.Fatalf("records = %d, want 1", len(repo.records))
	}
	got := repo.records[0]
	if got.ID == "" {
		t.Error("record ID should be set")
	}
	if got.IPAddress != "203.0.113.9" {
		t.Errorf("IPAddress = %q", got.IPAddress)
	}
	if got.Action != domain.ActionOTPRequest || got.Result != domain.ResultIssued {
		t.Errorf("action/result = %q/%q", got.Action, got.Result)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestRecorder_BestEffortOnStorageFailure(t *testing.T) {
	repo := &memAuditRepo{failing: true}
	rec := NewRecorder(repo, nil, nil)
	// Must not panic or propagate the error.
	rec.Record(context.Background(), Entry{Action: domain.ActionOTPVerify, Result: domain.ResultError})
}

func TestRecorder_FansOutToEmitter(t *testing.T) {
	repo := &memAuditRepo{}
	em := &recordingEmitter{ch: make(chan *domain.Record, 1)}
	rec := NewRecorder(repo, nil, em)

	rec.Record(context.Background(), Entry{Action: domain.ActionPasswordReset, Result: domain.ResultSuccess})

	select {
	case got := <-em.ch:
		if got.Action != domain.ActionPasswordReset {
			t.Errorf("emitted action = %q", got.Action)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("emitter was not called")
	}
}

func TestEmitAsync_NilSafe(t *testing.T) {
	EmitAsync(nil, &domain.Record{})
	EmitAsync(&recordingEmitter{ch: make(chan *domain.Record, 1)}, nil)
}
