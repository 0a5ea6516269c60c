package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime - время в формате HH:MM без привязки к дате
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock - парсит строку "HH:MM" (допускается "H:MM")
func ParseClock(value string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("failed to parse clock time '%s': expected HH:MM", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("failed to parse hour in '%s': %w", value, err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("failed to parse minute in '%s': %w", value, err)
	}

	if hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("hour %d in '%s' is out of range", hour, value)
	}
	if minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("minute %d in '%s' is out of range", minute, value)
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// OnDate - переносит время на календарную дату в указанной зоне
func (c ClockTime) OnDate(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = date.Location()
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// String возвращает время в формате HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DateKey - ключ календарного дня для группировки
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ISOWeekKey - ключ ISO-недели для группировки ("2026-W35")
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// HourLabel - подпись часового интервала ("09:00")
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// FormatMinuteOfHour - форматирует среднее время прихода внутри часа ("9:07")
func FormatMinuteOfHour(hour, minute int) string {
	return fmt.Sprintf("%d:%02d", hour, minute)
}
