package contract

type EventType string

const (
	EventPing EventType = "ping"

	EventConnectionKill EventType = "CONNECTION_KILL"
	EventAck            EventType = "ACK"

	EventNoteCreated  EventType = "NOTE_CREATED"
	EventNoteUpdated  EventType = "NOTE_UPDATED"
	EventNoteArchived EventType = "NOTE_ARCHIVED"
	EventNoteRestored EventType = "NOTE_RESTORED"
	EventNoteDeleted  EventType = "NOTE_DELETED"
)

type KillCode string

const (
	KillCodeTokenExpired     KillCode = "TOKEN_EXPIRED"
	KillCodeHeartbeatTimeout KillCode = "HEARTBEAT_TIMEOUT"
	KillCodeAccountDeleted   KillCode = "ACCOUNT_DELETED"
	KillCodeLoggedOut        KillCode = "LOGGED_OUT"
)

// IncomingSocketMessage is used for messages we receive from the users.
type IncomingSocketMessage struct {
	Type EventType `json:"type"`
}

// OutgoingSocketMessage is what we send to the client.
type OutgoingSocketMessage struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}
