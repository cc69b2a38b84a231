package engine

import (
	"testing"
	"time"
)

func TestSessionManager_SweepWipesExpiredFlows(t *testing.T) {
	m := newSessionManager(time.Minute)

	s := m.acquire(7)
	s.state = StateAwaitingPassword
	s.pending.name = "Gmail"
	s.pending.username = []byte("bob@example.com")
	s.expiresAt = time.Now().Add(-time.Second)
	m.release(s)

	m.sweep()

	s = m.acquire(7)
	defer m.release(s)

	if s.state != StateIdle {
		t.Errorf("expected idle after sweep, got %s", s.state)
	}
	if s.pending.name != "" || s.pending.username != nil {
		t.Error("expected pending data discarded after sweep")
	}
}

func TestSessionManager_ResetZeroesSecretBytes(t *testing.T) {
	s := &session{state: StateAwaitingPassword}
	buf := []byte("secret-value")
	s.pending.username = buf

	s.reset()

	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}

func TestSessionManager_ActiveFlowSurvivesSweep(t *testing.T) {
	m := newSessionManager(time.Minute)

	s := m.acquire(7)
	s.state = StateAwaitingName
	m.touch(s)
	m.release(s)

	m.sweep()

	s = m.acquire(7)
	defer m.release(s)

	if s.state != StateAwaitingName {
		t.Errorf("unexpired flow was reset, state %s", s.state)
	}
}
