package entity

type Note struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	CourseName  string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	FilePath    *string `gorm:"size:512"`
	UserID      string  `gorm:"not null;size:36;index"` // References: users(id)
	CreatedAt   int64   `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   *int64  `gorm:"autoUpdateTime:false"`

	// DeletedAt is the archive timestamp, nil while the note is active.
	// Active and archived rows are selected through the scope package.
	DeletedAt *int64 `gorm:"index"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (n *Note) IsArchived() bool {
	return n.DeletedAt != nil
}

// StoredFile returns the file path or "" when the note has no file.
func (n *Note) StoredFile() string {
	if n.FilePath == nil {
		return ""
	}
	return *n.FilePath
}
