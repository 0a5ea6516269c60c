package models

import (
	"time"
)

// Статусы классифицированных событий
const (
	StatusOnTime = "on_time"
	StatusLate   = "late"
)

// ClassifiedRecord - событие после классификации: штамп опоздания и статус
// проставляются один раз при создании и больше не пересчитываются
type ClassifiedRecord struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	EmployeeID     string    `gorm:"not null;index" json:"employee_id"`
	OrganizationID string    `gorm:"not null;index" json:"organization_id"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	VerificationMethod string `gorm:"type:varchar(20);default:'manual'" json:"verification_method"`
	Notes              string `json:"notes"`
	SessionValue       string `gorm:"index" json:"session_value"`

	// IsLate имеет смысл только для прихода; для ухода всегда false
	IsLate bool   `gorm:"not null;default:false" json:"is_late"`
	Status string `gorm:"type:varchar(20);not null;default:'on_time'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ClassifiedRecord) TableName() string {
	return "attendance_records"
}

// IsSignIn проверяет, является ли запись приходом
func (r *ClassifiedRecord) IsSignIn() bool {
	return r.Type == EventSignIn
}

// IsSignOut проверяет, является ли запись уходом
func (r *ClassifiedRecord) IsSignOut() bool {
	return r.Type == EventSignOut
}

// IsValid проверяет валидность данных
func (r *ClassifiedRecord) IsValid() bool {
	if r.EmployeeID == "" || r.OrganizationID == "" {
		return false
	}
	if r.Type != EventSignIn && r.Type != EventSignOut {
		return false
	}
	if r.Timestamp.IsZero() {
		return false
	}
	if r.Status != StatusOnTime && r.Status != StatusLate {
		return false
	}
	// Уход не может быть опозданием
	if r.Type == EventSignOut && r.IsLate {
		return false
	}
	return true
}
