package models

import (
	"time"
)

// Employee - запись справочника сотрудников: отдел и график работы.
// Пустой график означает, что часы работы не заведены
type Employee struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	EmployeeID     string    `gorm:"uniqueIndex;not null" json:"employee_id"`
	OrganizationID string    `gorm:"not null;index" json:"organization_id"`
	FullName       string    `json:"full_name"`
	Department     string    `json:"department"`
	WorkStart      string    `json:"work_start"` // "HH:MM", может быть пустым
	WorkEnd        string    `json:"work_end"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// WorkingHours возвращает график работы или nil, если он не заведен
func (e *Employee) WorkingHours() *WorkingHours {
	if e.WorkStart == "" || e.WorkEnd == "" {
		return nil
	}
	return &WorkingHours{Start: e.WorkStart, End: e.WorkEnd}
}

// IsValid проверяет валидность данных
func (e *Employee) IsValid() bool {
	if e.EmployeeID == "" {
		return false
	}
	if e.OrganizationID == "" {
		return false
	}
	// График либо не заведен, либо корректен целиком
	if e.WorkStart != "" || e.WorkEnd != "" {
		wh := WorkingHours{Start: e.WorkStart, End: e.WorkEnd}
		if !wh.IsValid() {
			return false
		}
	}
	return true
}
