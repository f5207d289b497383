package policy

import (
	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/utils/apierror"
)

// NotePolicy holds the ownership rules for note writes. Reads and
// id-addressed operations are open to any authenticated user.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

// OwnerForCreate resolves the owner of a new note. An empty userID means
// the actor, any other value must be the actor's own id.
func (p *NotePolicy) OwnerForCreate(actor *entity.User, userID string) (string, apierror.ErrorResponse) {
	if userID == "" {
		return actor.ID, nil
	}

	if userID != actor.ID {
		return "", apierror.OwnerMismatchError
	}
	return userID, nil
}

// OwnerForUpdate keeps the current owner when userID is empty.
func (p *NotePolicy) OwnerForUpdate(actor *entity.User, note *entity.Note, userID string) (string, apierror.ErrorResponse) {
	if userID == "" || userID == note.UserID {
		return note.UserID, nil
	}

	if userID != actor.ID {
		return "", apierror.OwnerMismatchError
	}
	return userID, nil
}
