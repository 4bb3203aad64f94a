package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2025, 10, 16, 14, 32, 15, 0, time.UTC)
	msg := NewMessage(RoleUser, "hello", at)

	if msg.Role != RoleUser {
		t.Errorf("Role = %s, want user", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %s, want hello", msg.Content)
	}
	if !msg.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", msg.CreatedAt, at)
	}
	if !msg.IsUser() {
		t.Error("Expected IsUser to be true")
	}
	if NewMessage(RoleAssistant, "x", at).IsUser() {
		t.Error("Expected assistant message not to be user")
	}
}

func TestConnectionState_StatusText(t *testing.T) {
	tests := []struct {
		name  string
		state ConnectionState
		want  string
	}{
		{"never checked", ConnectionState{}, StatusChecking},
		{"connected", ConnectionState{Connected: true, LastCheckedAt: time.Now()}, StatusConnected},
		{"disconnected", ConnectionState{Connected: false, LastCheckedAt: time.Now()}, StatusDisconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.StatusText(); got != tt.want {
				t.Errorf("StatusText() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewPendingRequest(t *testing.T) {
	p1 := NewPendingRequest("a", time.Now())
	p2 := NewPendingRequest("b", time.Now())

	if !strings.HasPrefix(p1.Token, PendingTokenPrefix) {
		t.Errorf("Token %s missing prefix %s", p1.Token, PendingTokenPrefix)
	}
	if p1.Token == p2.Token {
		t.Error("Expected distinct tokens")
	}
}

func TestPendingRequest_ResolveOnce(t *testing.T) {
	p := NewPendingRequest("a", time.Now())

	select {
	case <-p.Done():
		t.Fatal("Done closed before resolve")
	default:
	}

	first := NewMessage(RoleAssistant, "first", time.Now())
	if !p.Resolve(first, false) {
		t.Fatal("Expected first Resolve to succeed")
	}
	if p.Resolve(NewMessage(RoleAssistant, "second", time.Now()), true) {
		t.Error("Expected second Resolve to be ignored")
	}

	<-p.Done()
	msg, failed := p.Outcome()
	if msg.Content != "first" || failed {
		t.Errorf("Outcome() = %q, %v; want first, false", msg.Content, failed)
	}
}

func TestHeaders(t *testing.T) {
	if ProbeHeaders()["Accept"] != "text/event-stream" {
		t.Error("Probe must ask for an event stream")
	}
	if MessageHeaders()["Content-Type"] != "application/json" {
		t.Error("Messages must be sent as JSON")
	}
}
