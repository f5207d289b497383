package events

import "coursenotes/cmd/internal/contract"

type SocketEvent interface {
	GetType() contract.EventType
}

type Ack struct{}

func (*Ack) GetType() contract.EventType {
	return contract.EventAck
}

type ConnectionKill struct {
	Code   contract.KillCode `json:"code"`
	Reason *string           `json:"reason,omitempty"`
}

func (e *ConnectionKill) GetType() contract.EventType {
	return contract.EventConnectionKill
}

type NoteCreated struct {
	*contract.NoteResponse
}

func (e *NoteCreated) GetType() contract.EventType {
	return contract.EventNoteCreated
}

type NoteUpdated struct {
	*contract.NoteResponse
}

func (e *NoteUpdated) GetType() contract.EventType {
	return contract.EventNoteUpdated
}

type NoteArchived struct {
	*contract.NoteResponse
}

func (e *NoteArchived) GetType() contract.EventType {
	return contract.EventNoteArchived
}

type NoteRestored struct {
	*contract.NoteResponse
}

func (e *NoteRestored) GetType() contract.EventType {
	return contract.EventNoteRestored
}

// NoteDeleted only carries the id, the row is gone.
type NoteDeleted struct {
	NoteID int64 `json:"id"`
}

func (e *NoteDeleted) GetType() contract.EventType {
	return contract.EventNoteDeleted
}
