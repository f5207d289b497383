package entity

// User owns notes. Deleting a user cascades to its notes.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"not null;uniqueIndex;size:254"`
	PasswordHash string `gorm:"not null"`
	FirstName    string `gorm:"not null;size:30"`
	LastName     string `gorm:"not null;size:30"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`

	Notes []Note `gorm:"foreignKey:UserID"`
}
