package service

import (
	"sort"

	"attendance-engine/internal/models"
	"attendance-engine/pkg/timeparse"

	"github.com/sirupsen/logrus"
)

// Гранулярность линии тренда
const (
	TrendDaily  = "daily"
	TrendWeekly = "weekly"
)

type AnalyzerService struct {
	logger *logrus.Logger
}

func NewAnalyzerService() *AnalyzerService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &AnalyzerService{logger: logger}
}

// AnalyzeDepartments сворачивает приходы по отделам. Сотрудник без записи
// в справочнике попадает в синтетический отдел "Unknown", а не теряется:
// каждый приход должен быть отнесен ровно к одному отделу. Порядок выдачи -
// по первому появлению отдела, не алфавитный
func (s *AnalyzerService) AnalyzeDepartments(records []models.ClassifiedRecord, directory map[string]string) []models.DepartmentStat {
	byDepartment := make(map[string]*models.DepartmentStat)
	var order []string

	for _, record := range records {
		if record.Type != models.EventSignIn || record.Timestamp.IsZero() {
			continue
		}

		department, ok := directory[record.EmployeeID]
		if !ok {
			department = models.UnknownDepartment
		}

		stat, seen := byDepartment[department]
		if !seen {
			stat = &models.DepartmentStat{Department: department}
			byDepartment[department] = stat
			order = append(order, department)
		}

		stat.TotalDays++
		stat.PresentDays++
		if record.IsLate {
			stat.LateDays++
		}
		stat.ArrivalMinuteSum += record.Timestamp.Hour()*60 + record.Timestamp.Minute()
	}

	stats := make([]models.DepartmentStat, 0, len(order))
	for _, department := range order {
		stats = append(stats, *byDepartment[department])
	}

	s.logger.WithFields(logrus.Fields{
		"records":     len(records),
		"departments": len(stats),
	}).Info("Department stats analyzed")

	return stats
}

// BuildTrend строит линию тренда по дням или ISO-неделям.
// Деление на ноль исключено: пустой период дает нулевые проценты
func (s *AnalyzerService) BuildTrend(records []models.ClassifiedRecord, granularity string) []models.TrendPoint {
	type tally struct {
		total   int
		present int
		onTime  int
	}

	byPeriod := make(map[string]*tally)

	for _, record := range records {
		if record.Type != models.EventSignIn || record.Timestamp.IsZero() {
			continue
		}

		var period string
		if granularity == TrendWeekly {
			period = timeparse.ISOWeekKey(record.Timestamp)
		} else {
			period = timeparse.DateKey(record.Timestamp)
		}

		t, ok := byPeriod[period]
		if !ok {
			t = &tally{}
			byPeriod[period] = t
		}

		t.total++
		t.present++
		if !record.IsLate {
			t.onTime++
		}
	}

	periods := make([]string, 0, len(byPeriod))
	for period := range byPeriod {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	points := make([]models.TrendPoint, 0, len(periods))
	for _, period := range periods {
		t := byPeriod[period]

		point := models.TrendPoint{Period: period}
		if t.total > 0 {
			point.AttendanceRate = float64(t.present) / float64(t.total) * 100
			point.PunctualityRate = float64(t.onTime) / float64(t.total) * 100
		}
		points = append(points, point)
	}

	s.logger.WithFields(logrus.Fields{
		"granularity": granularity,
		"periods":     len(points),
	}).Debug("Trend line built")

	return points
}
