package service

import (
	"context"
	"slices"
	"sync"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/domain/events"
)

type recordingFiles struct {
	mu      sync.Mutex
	deleted []string
}

func (r *recordingFiles) DeleteFile(_ context.Context, publicPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, publicPath)
}

func (r *recordingFiles) Deleted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.deleted)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []contract.EventType
	kills  map[string]contract.KillCode
}

func (r *recordingEvents) Broadcast(_ context.Context, evt events.SocketEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt.GetType())
}

func (r *recordingEvents) TerminateUserConnections(_ context.Context, userID string, ck *events.ConnectionKill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.kills == nil {
		r.kills = map[string]contract.KillCode{}
	}
	r.kills[userID] = ck.Code
}

func (r *recordingEvents) Has(evt contract.EventType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.events, evt)
}

func (r *recordingEvents) KillCode(userID string) (contract.KillCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.kills[userID]
	return code, ok
}

// steppingClock returns increasing millis on every call.
func steppingClock(start int64) func() int64 {
	var mu sync.Mutex
	now := start
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		now += 1000
		return now
	}
}
