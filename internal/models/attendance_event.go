package models

import (
	"time"
)

// Типы событий посещаемости
const (
	EventSignIn  = "sign_in"
	EventSignOut = "sign_out"
)

// Способы подтверждения личности
const (
	VerificationFace        = "face"
	VerificationFingerprint = "fingerprint"
	VerificationManual      = "manual"
)

// AttendanceEvent - сырое событие прихода/ухода, неизменяемое после создания
type AttendanceEvent struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	EmployeeID     string    `gorm:"not null;index" json:"employee_id"`
	OrganizationID string    `gorm:"not null;index" json:"organization_id"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`

	// Геопозиция (необязательная)
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	VerificationMethod string `gorm:"type:varchar(20);default:'manual'" json:"verification_method"`
	Notes              string `json:"notes"`

	// Ссылка на чекин-сессию (не владеет ею)
	SessionValue string `gorm:"index" json:"session_value"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AttendanceEvent) TableName() string {
	return "attendance_events"
}

// IsSignIn проверяет, является ли событие приходом
func (e *AttendanceEvent) IsSignIn() bool {
	return e.Type == EventSignIn
}

// IsSignOut проверяет, является ли событие уходом
func (e *AttendanceEvent) IsSignOut() bool {
	return e.Type == EventSignOut
}

// IsValid проверяет валидность данных
func (e *AttendanceEvent) IsValid() bool {
	if e.EmployeeID == "" {
		return false
	}
	if e.OrganizationID == "" {
		return false
	}
	if e.Type != EventSignIn && e.Type != EventSignOut {
		return false
	}
	if e.Timestamp.IsZero() {
		return false
	}
	return true
}
