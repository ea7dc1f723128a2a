package model

import (
	"time"
)

type Document struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Subject   string    `gorm:"size:50;index" json:"subject"` // maths, physique, svt...
	Level     string    `gorm:"size:50;index" json:"level"`   // bfem, bac-s1, bac-l...
	Year      int       `json:"year"`
	FileURL   string    `gorm:"size:500" json:"file_url"`
	FileKey   string    `gorm:"size:500" json:"-"` // OSS object key
	Premium   bool      `gorm:"default:false;index" json:"premium"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
