package service

import (
	"context"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/domain/database/scope"
	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/domain/events"
	"coursenotes/cmd/internal/domain/policy"
	"coursenotes/cmd/internal/metrics"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindActive(ctx context.Context, filter scope.NoteFilter) ([]*entity.Note, error)
	FindArchived(ctx context.Context, filter scope.NoteFilter) ([]*entity.Note, error)
	FindActiveByID(ctx context.Context, id int64) (*entity.Note, error)
	FindArchivedByID(ctx context.Context, id int64) (*entity.Note, error)
	FindByID(ctx context.Context, id int64) (*entity.Note, error)
	Save(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, note *entity.Note) error
}

// FileRemover deletes stored files by their public path. Failures are
// logged by the implementation and never reported back.
type FileRemover interface {
	DeleteFile(ctx context.Context, publicPath string)
}

type EventDispatcher interface {
	Broadcast(ctx context.Context, evt events.SocketEvent)
}

type DefaultNoteService struct {
	NoteRepo NoteRepository
	Files    FileRemover
	Events   EventDispatcher
	Policy   *policy.NotePolicy
	Validate *validator.Validate
	Now      func() int64
}

func NewNoteService(
	noteRepo NoteRepository,
	files FileRemover,
	dispatcher EventDispatcher,
	validate *validator.Validate,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo: noteRepo,
		Files:    files,
		Events:   dispatcher,
		Policy:   policy.NewNotePolicy(),
		Validate: validate,
		Now:      utils.NowUTC,
	}
}

func (n *DefaultNoteService) ListActive(ctx context.Context, query *contract.NoteQuery) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	filter, apierr := n.toFilter(query)
	if apierr != nil {
		return nil, apierr
	}

	notes, err := n.NoteRepo.FindActive(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch active notes: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(notes), nil
}

func (n *DefaultNoteService) ListArchived(ctx context.Context, query *contract.NoteQuery) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	filter, apierr := n.toFilter(query)
	if apierr != nil {
		return nil, apierr
	}

	notes, err := n.NoteRepo.FindArchived(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch archived notes: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(notes), nil
}

func (n *DefaultNoteService) GetNote(ctx context.Context, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.findActive(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) CreateNote(ctx context.Context, actor *entity.User, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.FilePath = emptyToNil(req.FilePath)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	owner, apierr := n.Policy.OwnerForCreate(actor, req.UserID)
	if apierr != nil {
		return nil, apierr
	}

	note := &entity.Note{
		CourseName:  req.CourseName,
		Description: req.Description,
		FilePath:    req.FilePath,
		UserID:      owner,
		CreatedAt:   n.Now(),
	}

	if err := n.NoteRepo.Save(ctx, note); err != nil {
		log.Errorf("user %s failed to create note: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	metrics.TrackNoteOperation(metrics.OpCreate)
	resp := toNoteResponse(note)
	go n.dispatch(&events.NoteCreated{NoteResponse: resp})
	return resp, nil
}

// UpdateNote replaces the editable fields of an active note. A file that
// is no longer referenced is removed once the row is saved.
func (n *DefaultNoteService) UpdateNote(ctx context.Context, actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if req.ID != nil && *req.ID != noteID {
		return nil, apierror.NoteIDMismatchError
	}

	utils.Sanitize(req)
	req.FilePath = emptyToNil(req.FilePath)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.findActive(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}

	owner, apierr := n.Policy.OwnerForUpdate(actor, note, req.UserID)
	if apierr != nil {
		return nil, apierr
	}

	oldFile := note.StoredFile()
	now := n.Now()

	note.CourseName = req.CourseName
	note.Description = req.Description
	note.FilePath = req.FilePath
	note.UserID = owner
	note.UpdatedAt = &now

	if err := n.NoteRepo.Save(ctx, note); err != nil {
		log.Errorf("user %s failed to update note %d: %v", actor.ID, noteID, err)
		return nil, apierror.InternalServerError
	}

	if oldFile != "" && oldFile != note.StoredFile() {
		n.Files.DeleteFile(ctx, oldFile)
	}

	metrics.TrackNoteOperation(metrics.OpUpdate)
	resp := toNoteResponse(note)
	go n.dispatch(&events.NoteUpdated{NoteResponse: resp})
	return resp, nil
}

// DeleteNote archives an active note. A note that is already archived is
// deleted for good, the same as PermanentlyDeleteNote.
func (n *DefaultNoteService) DeleteNote(ctx context.Context, noteID int64) apierror.ErrorResponse {
	note, err := n.NoteRepo.FindByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return apierror.InternalServerError
	}

	if note == nil {
		return apierror.NoteNotFoundError
	}

	if note.IsArchived() {
		return n.hardDelete(ctx, note)
	}

	now := n.Now()
	note.DeletedAt = &now
	note.UpdatedAt = &now

	if err := n.NoteRepo.Save(ctx, note); err != nil {
		log.Errorf("failed to archive note %d: %v", noteID, err)
		return apierror.InternalServerError
	}

	metrics.TrackNoteOperation(metrics.OpArchive)
	go n.dispatch(&events.NoteArchived{NoteResponse: toNoteResponse(note)})
	return nil
}

// PermanentlyDeleteNote only accepts archived notes.
func (n *DefaultNoteService) PermanentlyDeleteNote(ctx context.Context, noteID int64) apierror.ErrorResponse {
	note, err := n.NoteRepo.FindArchivedByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch archived note %d: %v", noteID, err)
		return apierror.InternalServerError
	}

	if note == nil {
		return apierror.ArchivedNotFoundError
	}
	return n.hardDelete(ctx, note)
}

func (n *DefaultNoteService) RestoreNote(ctx context.Context, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindArchivedByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch archived note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.ArchivedNotFoundError
	}

	now := n.Now()
	note.DeletedAt = nil
	note.UpdatedAt = &now

	if err := n.NoteRepo.Save(ctx, note); err != nil {
		log.Errorf("failed to restore note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	metrics.TrackNoteOperation(metrics.OpRestore)
	resp := toNoteResponse(note)
	go n.dispatch(&events.NoteRestored{NoteResponse: resp})
	return resp, nil
}

func (n *DefaultNoteService) hardDelete(ctx context.Context, note *entity.Note) apierror.ErrorResponse {
	if err := n.NoteRepo.Delete(ctx, note); err != nil {
		log.Errorf("failed to delete note %d: %v", note.ID, err)
		return apierror.InternalServerError
	}

	if file := note.StoredFile(); file != "" {
		n.Files.DeleteFile(ctx, file)
	}

	metrics.TrackNoteOperation(metrics.OpDelete)
	go n.dispatch(&events.NoteDeleted{NoteID: note.ID})
	return nil
}

func (n *DefaultNoteService) findActive(ctx context.Context, noteID int64) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindActiveByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NoteNotFoundError
	}
	return note, nil
}

func (n *DefaultNoteService) toFilter(query *contract.NoteQuery) (scope.NoteFilter, apierror.ErrorResponse) {
	if query == nil {
		return scope.NoteFilter{}, nil
	}

	utils.Sanitize(query)
	if valerr := n.Validate.Struct(query); valerr != nil {
		return scope.NoteFilter{}, apierror.FromValidationError(valerr)
	}
	return scope.NoteFilter{Search: query.Search, Sort: query.Sort}, nil
}

func (n *DefaultNoteService) dispatch(evt events.SocketEvent) {
	n.Events.Broadcast(context.Background(), evt)
}

func toNoteResponses(notes []*entity.Note) []*contract.NoteResponse {
	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	return &contract.NoteResponse{
		ID:          note.ID,
		CourseName:  note.CourseName,
		Description: note.Description,
		FilePath:    note.FilePath,
		UserID:      note.UserID,
		CreatedAt:   utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:   utils.FormatEpochPtr(note.UpdatedAt),
		DeletedAt:   utils.FormatEpochPtr(note.DeletedAt),
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
