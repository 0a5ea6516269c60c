package models

// UnknownDepartment - синтетический отдел для сотрудников без записи в справочнике
const UnknownDepartment = "Unknown"

// DepartmentStat - сводка по отделу. Проценты вычисляются при чтении,
// источником истины остаются счетчики
type DepartmentStat struct {
	Department  string `json:"department"`
	TotalDays   int    `json:"total_days"` // число наблюдаемых приходов
	PresentDays int    `json:"present_days"`
	LateDays    int    `json:"late_days"`

	// Сумма минут от полуночи для среднего времени прихода
	ArrivalMinuteSum int `json:"-"`
}

// AttendanceRate - процент присутствия, 0 при пустой выборке
func (s *DepartmentStat) AttendanceRate() float64 {
	if s.TotalDays == 0 {
		return 0
	}
	return float64(s.PresentDays) / float64(s.TotalDays) * 100
}

// LateArrivalRate - процент опозданий, 0 при пустой выборке
func (s *DepartmentStat) LateArrivalRate() float64 {
	if s.TotalDays == 0 {
		return 0
	}
	return float64(s.LateDays) / float64(s.TotalDays) * 100
}

// AverageArrivalMinute - среднее время прихода в минутах от полуночи
func (s *DepartmentStat) AverageArrivalMinute() int {
	if s.TotalDays == 0 {
		return 0
	}
	return s.ArrivalMinuteSum / s.TotalDays
}

// IsValid проверяет инварианты счетчиков
func (s *DepartmentStat) IsValid() bool {
	if s.Department == "" {
		return false
	}
	if s.LateDays > s.TotalDays {
		return false
	}
	if s.PresentDays > s.TotalDays {
		return false
	}
	return true
}

// TrendPoint - точка линии тренда за период (день или ISO-неделя)
type TrendPoint struct {
	Period          string  `json:"period"`
	AttendanceRate  float64 `json:"attendance_rate"`
	PunctualityRate float64 `json:"punctuality_rate"`
}
