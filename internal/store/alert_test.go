package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func createTestSession(t *testing.T, s *Store) string {
	t.Helper()

	id := uuid.NewString()
	if err := s.Sessions().Create(&Session{ID: id}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return id
}

func TestAlertRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	sessionID := createTestSession(t, s)

	id := uuid.NewString()
	err := s.Alerts().Create(&Alert{
		ID:            id,
		SessionID:     sessionID,
		Seq:           1,
		PeakLowFrames: 20,
		MinEAR:        0.12,
	})
	if err != nil {
		t.Fatalf("failed to create alert: %v", err)
	}

	a, err := s.Alerts().GetByID(id)
	if err != nil {
		t.Fatalf("failed to get alert: %v", err)
	}

	if a.SessionID != sessionID {
		t.Errorf("expected session ID %q, got %q", sessionID, a.SessionID)
	}
	if a.Seq != 1 {
		t.Errorf("expected seq 1, got %d", a.Seq)
	}
	if a.RaisedAt.IsZero() {
		t.Error("expected RaisedAt to be filled in on create")
	}
	if a.ClearedAt != nil {
		t.Error("new alert should not have a clear time")
	}
	if a.MinEAR != 0.12 {
		t.Errorf("expected min EAR 0.12, got %f", a.MinEAR)
	}
}

func TestAlertRepository_Create_RequiresSession(t *testing.T) {
	s := newTestStore(t)

	// The session foreign key is enforced
	err := s.Alerts().Create(&Alert{
		ID:        uuid.NewString(),
		SessionID: "no-such-session",
		Seq:       1,
	})
	if err == nil {
		t.Error("expected foreign key violation for missing session")
	}
}

func TestAlertRepository_Clear(t *testing.T) {
	s := newTestStore(t)
	sessionID := createTestSession(t, s)

	id := uuid.NewString()
	err := s.Alerts().Create(&Alert{
		ID:        id,
		SessionID: sessionID,
		Seq:       1,
		MinEAR:    0.2,
	})
	if err != nil {
		t.Fatalf("failed to create alert: %v", err)
	}

	// The extremes observed while the alert was active land on clear
	if err := s.Alerts().Clear(id, 47, 0.08); err != nil {
		t.Fatalf("failed to clear alert: %v", err)
	}

	a, err := s.Alerts().GetByID(id)
	if err != nil {
		t.Fatalf("failed to get alert: %v", err)
	}

	if a.ClearedAt == nil {
		t.Fatal("cleared alert should have a clear time")
	}
	if a.PeakLowFrames != 47 {
		t.Errorf("expected peak low frames 47, got %d", a.PeakLowFrames)
	}
	if a.MinEAR != 0.08 {
		t.Errorf("expected min EAR 0.08, got %f", a.MinEAR)
	}
}

func TestAlertRepository_Clear_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Alerts().Clear("no-such-alert", 0, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAlertRepository_ListBySession(t *testing.T) {
	s := newTestStore(t)
	sessionA := createTestSession(t, s)
	sessionB := createTestSession(t, s)

	for seq := 1; seq <= 3; seq++ {
		err := s.Alerts().Create(&Alert{
			ID:        uuid.NewString(),
			SessionID: sessionA,
			Seq:       seq,
		})
		if err != nil {
			t.Fatalf("failed to create alert %d: %v", seq, err)
		}
	}
	err := s.Alerts().Create(&Alert{ID: uuid.NewString(), SessionID: sessionB, Seq: 1})
	if err != nil {
		t.Fatalf("failed to create alert for other session: %v", err)
	}

	alerts, err := s.Alerts().ListBySession(sessionA)
	if err != nil {
		t.Fatalf("failed to list alerts: %v", err)
	}

	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts for session, got %d", len(alerts))
	}

	// Ordered by raise sequence
	for i, a := range alerts {
		if a.Seq != i+1 {
			t.Errorf("alert %d: expected seq %d, got %d", i, i+1, a.Seq)
		}
	}
}

func TestAlertRepository_ListRecent(t *testing.T) {
	s := newTestStore(t)
	sessionID := createTestSession(t, s)

	for seq := 1; seq <= 5; seq++ {
		err := s.Alerts().Create(&Alert{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Seq:       seq,
		})
		if err != nil {
			t.Fatalf("failed to create alert %d: %v", seq, err)
		}
	}

	alerts, err := s.Alerts().ListRecent(3)
	if err != nil {
		t.Fatalf("failed to list recent alerts: %v", err)
	}
	if len(alerts) != 3 {
		t.Errorf("expected 3 alerts with limit, got %d", len(alerts))
	}
}

func TestAlertRepository_SessionDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	sessionID := createTestSession(t, s)

	id := uuid.NewString()
	err := s.Alerts().Create(&Alert{ID: id, SessionID: sessionID, Seq: 1})
	if err != nil {
		t.Fatalf("failed to create alert: %v", err)
	}

	if _, err := s.DB().Exec(`DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	if _, err := s.Alerts().GetByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected alert to be deleted with its session, got %v", err)
	}
}
