package scope

import (
	"strings"

	"gorm.io/gorm"
)

const (
	SortByDate  = "date"
	SortByTitle = "title"
)

// Active keeps notes that have not been archived.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// Archived keeps soft deleted notes only.
func Archived(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NOT NULL")
}

// OwnedBy restricts rows to a single user.
func OwnedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// Search matches the term against course name and description, ignoring case.
// An empty term is a no-op.
func Search(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}

		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		return db.Where("(LOWER(course_name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
}

// OrderBy sorts by course name when asked to, otherwise by dateColumn newest first.
func OrderBy(sort, dateColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sort == SortByTitle {
			return db.Order("LOWER(course_name) ASC").Order("id ASC")
		}
		return db.Order(dateColumn + " DESC").Order("id DESC")
	}
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// NoteFilter carries the optional list filters of the notes endpoints.
type NoteFilter struct {
	Search string
	Sort   string
}
