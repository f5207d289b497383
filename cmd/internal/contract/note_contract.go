package contract

const MaxNoteFileSizeBytes = 5 * 1024 * 1024

var ValidNoteFileTypes = []string{"pdf", "doc", "docx", "txt", "md", "png", "jpg", "jpeg"}

const (
	SortByDate  = "date"
	SortByTitle = "title"
)

type NoteResponse struct {
	ID          int64   `json:"id"`
	CourseName  string  `json:"courseName"`
	Description string  `json:"description"`
	FilePath    *string `json:"filePath"`
	UserID      string  `json:"userId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
	DeletedAt   *string `json:"deletedAt"`
}

type NoteRequest struct {
	CourseName  string  `json:"courseName" validate:"required,min=3"`
	Description string  `json:"description" validate:"required,min=10"`
	FilePath    *string `json:"filePath" validate:"omitempty,startswith=/uploads/"`
	UserID      string  `json:"userId"`
}

// UpdateNoteRequest is a full replacement of the editable fields. ID is
// optional but must match the route when present.
type UpdateNoteRequest struct {
	ID          *int64  `json:"id"`
	CourseName  string  `json:"courseName" validate:"required,min=3"`
	Description string  `json:"description" validate:"required,min=10"`
	FilePath    *string `json:"filePath" validate:"omitempty,startswith=/uploads/"`
	UserID      string  `json:"userId"`
}

type NoteQuery struct {
	Search string `query:"q" json:"q" validate:"max=200"`
	Sort   string `query:"sort" json:"sort" validate:"omitempty,oneof=date title"`
}

type UploadResponse struct {
	FilePath string `json:"filePath"`
}
