package repository

import (
	"context"
	"errors"

	"coursenotes/cmd/internal/domain/database/scope"
	"coursenotes/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// FindActive lists notes that are not archived, newest first unless the
// filter asks for title order.
func (d *DefaultNoteRepository) FindActive(ctx context.Context, filter scope.NoteFilter) ([]*entity.Note, error) {
	notes := []*entity.Note{}
	err := d.db.WithContext(ctx).
		Scopes(scope.Active, scope.Search(filter.Search), scope.OrderBy(filter.Sort, "created_at")).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// FindArchived lists soft deleted notes, most recently archived first unless
// the filter asks for title order.
func (d *DefaultNoteRepository) FindArchived(ctx context.Context, filter scope.NoteFilter) ([]*entity.Note, error) {
	notes := []*entity.Note{}
	err := d.db.WithContext(ctx).
		Scopes(scope.Archived, scope.Search(filter.Search), scope.OrderBy(filter.Sort, "deleted_at")).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindActiveByID(ctx context.Context, id int64) (*entity.Note, error) {
	return d.findOne(d.db.WithContext(ctx).Scopes(scope.Active), id)
}

func (d *DefaultNoteRepository) FindArchivedByID(ctx context.Context, id int64) (*entity.Note, error) {
	return d.findOne(d.db.WithContext(ctx).Scopes(scope.Archived), id)
}

// FindByID ignores the archive state.
func (d *DefaultNoteRepository) FindByID(ctx context.Context, id int64) (*entity.Note, error) {
	return d.findOne(d.db.WithContext(ctx), id)
}

// FindAllByUserID returns every note of the user, archived ones included.
func (d *DefaultNoteRepository) FindAllByUserID(ctx context.Context, userID string) ([]*entity.Note, error) {
	notes := []*entity.Note{}
	err := d.db.WithContext(ctx).Scopes(scope.OwnedBy(userID)).Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) Save(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).Omit("User").Save(note).Error
}

func (d *DefaultNoteRepository) Delete(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).Delete(note).Error
}

func (d *DefaultNoteRepository) findOne(tx *gorm.DB, id int64) (*entity.Note, error) {
	var note entity.Note
	err := tx.Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}
