package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	id := uuid.NewString()
	if err := s.Sessions().Create(&Session{ID: id}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	sess, err := s.Sessions().GetByID(id)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}

	if sess.ID != id {
		t.Errorf("expected ID %q, got %q", id, sess.ID)
	}
	if sess.StartedAt.IsZero() {
		t.Error("expected StartedAt to be filled in on create")
	}
	if sess.EndedAt != nil {
		t.Error("new session should not have an end time")
	}
	if sess.Frames != 0 || sess.Alerts != 0 {
		t.Errorf("new session counters should be zero, got frames=%d alerts=%d", sess.Frames, sess.Alerts)
	}
}

func TestSessionRepository_Finish(t *testing.T) {
	s := newTestStore(t)

	id := uuid.NewString()
	if err := s.Sessions().Create(&Session{ID: id}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if err := s.Sessions().Finish(id, 4230, 2); err != nil {
		t.Fatalf("failed to finish session: %v", err)
	}

	sess, err := s.Sessions().GetByID(id)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}

	if sess.EndedAt == nil {
		t.Fatal("finished session should have an end time")
	}
	if sess.Frames != 4230 {
		t.Errorf("expected 4230 frames, got %d", sess.Frames)
	}
	if sess.Alerts != 2 {
		t.Errorf("expected 2 alerts, got %d", sess.Alerts)
	}
}

func TestSessionRepository_Finish_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Sessions().Finish("no-such-session", 0, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("no-such-session")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)

	// Insert three sessions with increasing start times
	base := time.Now().Add(-time.Hour)
	ids := make([]string, 3)
	for i := range ids {
		ids[i] = uuid.NewString()
		err := s.Sessions().Create(&Session{
			ID:        ids[i],
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("failed to create session %d: %v", i, err)
		}
	}

	sessions, err := s.Sessions().List(10)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}

	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}

	// Most recent first
	if sessions[0].ID != ids[2] {
		t.Errorf("expected most recent session first, got %q", sessions[0].ID)
	}

	// Limit applies
	limited, err := s.Sessions().List(2)
	if err != nil {
		t.Fatalf("failed to list sessions with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 sessions with limit, got %d", len(limited))
	}
}
