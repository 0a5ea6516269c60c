package models

import (
	"time"
)

// DayKey - ключ агрегации: сотрудник + календарный день
type DayKey struct {
	EmployeeID string
	Date       string // "2006-01-02"
}

// DailyBucket - дневная сводка по сотруднику: первый приход, последний уход,
// отработанные минуты. Заполняется сверткой событий дня в порядке времени
type DailyBucket struct {
	EmployeeID  string     `json:"employee_id"`
	Date        string     `json:"date"`
	FirstSignIn *time.Time `json:"first_sign_in"`
	LastSignOut *time.Time `json:"last_sign_out"`

	// WorkedMinutes остается nil, пока нет пары приход+уход за день
	WorkedMinutes *int `json:"worked_minutes"`

	// Late - был ли первый приход за день опозданием
	Late bool `json:"late"`
}

// UpdateWorkedMinutes пересчитывает отработанные минуты, если день закрыт.
// Отрицательная разница (рассинхрон часов) обрезается до нуля
func (b *DailyBucket) UpdateWorkedMinutes() {
	if b.FirstSignIn == nil || b.LastSignOut == nil {
		b.WorkedMinutes = nil
		return
	}
	minutes := int(b.LastSignOut.Sub(*b.FirstSignIn).Round(time.Minute).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	b.WorkedMinutes = &minutes
}

// IsClosed проверяет, закрыт ли день (есть и приход, и уход)
func (b *DailyBucket) IsClosed() bool {
	return b.FirstSignIn != nil && b.LastSignOut != nil
}
