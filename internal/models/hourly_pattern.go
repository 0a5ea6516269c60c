package models

import (
	"attendance-engine/pkg/timeparse"
)

// HourlyPattern - распределение приходов по часу суток (0-23).
// Счетчики пополняются только событиями прихода
type HourlyPattern struct {
	Hour   int    `json:"hour"`
	Label  string `json:"label"` // "09:00"
	OnTime int    `json:"on_time"`
	Late   int    `json:"late"`

	// Сумма минут внутри часа для среднего времени прихода
	MinuteSum int `json:"-"`
}

// Count возвращает общее число приходов в интервале
func (p *HourlyPattern) Count() int {
	return p.OnTime + p.Late
}

// AverageArrival - среднее время прихода в интервале ("9:07").
// Не определено для пустого интервала, такой интервал не попадает в выдачу
func (p *HourlyPattern) AverageArrival() string {
	count := p.Count()
	if count == 0 {
		return ""
	}
	return timeparse.FormatMinuteOfHour(p.Hour, p.MinuteSum/count)
}
