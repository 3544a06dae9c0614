//go:build integration || unit || test

// Package commanddoubles provides hand-written test doubles for command interfaces.
package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// LifecycleCall is one lifecycle notification seen by StubWebhookSync.
type LifecycleCall struct {
	Event string
	Owner entities.SourceOwner
}

// StubWebhookSync records lifecycle notifications and reconciliation calls.
type StubWebhookSync struct {
	mu sync.Mutex

	Started     bool
	Stopped     bool
	Events      []LifecycleCall
	Registered  []string
	Removed     []string
	FailuresOut int
}

var _ commands.WebhookSync = (*StubWebhookSync)(nil)

func (s *StubWebhookSync) Start(_ context.Context, _ *entities.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Started = true
}

func (s *StubWebhookSync) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stopped = true
}

func (s *StubWebhookSync) OnCreated(owner entities.SourceOwner) {
	s.record("created", owner)
}

func (s *StubWebhookSync) OnUpdated(owner entities.SourceOwner) {
	s.record("updated", owner)
}

func (s *StubWebhookSync) OnDeleted(owner entities.SourceOwner) {
	s.record("deleted", owner)
}

func (s *StubWebhookSync) record(event string, owner entities.SourceOwner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, LifecycleCall{Event: event, Owner: owner})
}

func (s *StubWebhookSync) Register(_ context.Context, _ *entities.Settings, owner entities.SourceOwner) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Registered = append(s.Registered, owner.Name)
	return s.FailuresOut
}

func (s *StubWebhookSync) Remove(_ context.Context, _ *entities.Settings, owner entities.SourceOwner) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = append(s.Removed, owner.Name)
	return s.FailuresOut
}
