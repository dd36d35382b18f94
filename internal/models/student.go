// backend/internal/models/student.go
package models

import (
	"time"
)

// Student is the account record. StudentID is the external identifier carried
// by transcripts and used to key every derived entity.
type Student struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	StudentID string    `json:"student_id" gorm:"unique;not null"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"unique"`
	Password  string    `json:"-" gorm:"not null"`
}
