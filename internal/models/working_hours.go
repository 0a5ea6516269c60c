package models

import (
	"time"

	"attendance-engine/pkg/timeparse"
)

// WorkingHours - график работы сотрудника или отдела, время в формате HH:MM.
// Поставляется справочником сотрудников, движок только читает
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StartOnDate возвращает плановое время начала работы на календарную дату
func (wh *WorkingHours) StartOnDate(date time.Time, loc *time.Location) (time.Time, error) {
	clock, err := timeparse.ParseClock(wh.Start)
	if err != nil {
		return time.Time{}, err
	}
	return clock.OnDate(date, loc), nil
}

// EndOnDate возвращает плановое время конца работы на календарную дату
func (wh *WorkingHours) EndOnDate(date time.Time, loc *time.Location) (time.Time, error) {
	clock, err := timeparse.ParseClock(wh.End)
	if err != nil {
		return time.Time{}, err
	}
	return clock.OnDate(date, loc), nil
}

// IsValid проверяет валидность данных
func (wh *WorkingHours) IsValid() bool {
	if _, err := timeparse.ParseClock(wh.Start); err != nil {
		return false
	}
	if _, err := timeparse.ParseClock(wh.End); err != nil {
		return false
	}
	return true
}
