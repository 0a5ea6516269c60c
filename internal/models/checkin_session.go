package models

import (
	"time"
)

// DefaultSessionDurationHours - срок жизни чекин-сессии по умолчанию
const DefaultSessionDurationHours = 24

// CheckinSession - временный токен чекина (QR). Протухание не хранится в базе,
// а вычисляется предикатом от текущего момента
type CheckinSession struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Value       string    `gorm:"uniqueIndex;not null" json:"value"`
	LocationTag string    `json:"location_tag"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CheckinSession) TableName() string {
	return "checkin_sessions"
}

// IsExpired проверяет, истек ли срок жизни на момент now
func (s *CheckinSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsValidAt проверяет, действительна ли сессия на момент now
func (s *CheckinSession) IsValidAt(now time.Time) bool {
	return s.IsActive && !s.IsExpired(now)
}

// IsValid проверяет валидность данных
func (s *CheckinSession) IsValid() bool {
	if s.Value == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return true
}
