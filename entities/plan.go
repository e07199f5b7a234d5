package entities

import "time"

// PlanRecord archives one successful generation when the archive is enabled.
type PlanRecord struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	SchemaVersion string    `json:"schema_version"`
	Species       string    `gorm:"index" json:"species"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	TaskCount     int       `json:"task_count"`
	RequestJSON   string    `json:"-"`
	PlanJSON      string    `json:"-"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
