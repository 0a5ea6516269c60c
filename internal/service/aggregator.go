package service

import (
	"sort"

	"attendance-engine/internal/models"
	"attendance-engine/pkg/timeparse"

	"github.com/sirupsen/logrus"
)

// SkippedRecord - диагностика записи, пропущенной при свертке
type SkippedRecord struct {
	EmployeeID string
	Reason     string
}

type AggregatorService struct {
	logger *logrus.Logger
}

func NewAggregatorService() *AggregatorService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &AggregatorService{logger: logger}
}

// FoldDaily сворачивает записи в дневные сводки по сотрудникам.
// Записи обрабатываются в порядке времени; приход открывает день,
// уход закрывает его. Записи без времени пропускаются с диагностикой,
// одна битая запись не роняет всю пачку
func (s *AggregatorService) FoldDaily(records []models.ClassifiedRecord) (map[models.DayKey]*models.DailyBucket, []SkippedRecord) {
	sorted := make([]models.ClassifiedRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	buckets := make(map[models.DayKey]*models.DailyBucket)
	var skipped []SkippedRecord

	for _, record := range sorted {
		if record.Timestamp.IsZero() {
			skipped = append(skipped, SkippedRecord{
				EmployeeID: record.EmployeeID,
				Reason:     "missing timestamp",
			})
			continue
		}

		if record.Type != models.EventSignIn && record.Type != models.EventSignOut {
			skipped = append(skipped, SkippedRecord{
				EmployeeID: record.EmployeeID,
				Reason:     "unknown event type " + record.Type,
			})
			continue
		}

		key := models.DayKey{
			EmployeeID: record.EmployeeID,
			Date:       timeparse.DateKey(record.Timestamp),
		}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &models.DailyBucket{
				EmployeeID: key.EmployeeID,
				Date:       key.Date,
			}
			buckets[key] = bucket
		}

		if record.Type == models.EventSignIn {
			if bucket.FirstSignIn == nil {
				t := record.Timestamp
				bucket.FirstSignIn = &t
				bucket.Late = record.IsLate
			}
		} else {
			t := record.Timestamp
			bucket.LastSignOut = &t
		}

		bucket.UpdateWorkedMinutes()
	}

	s.logger.WithFields(logrus.Fields{
		"records": len(records),
		"buckets": len(buckets),
		"skipped": len(skipped),
	}).Info("Daily buckets folded")

	return buckets, skipped
}

// BuildHourlyPattern строит распределение приходов по часам суток.
// Учитываются только приходы; пустые интервалы в выдачу не попадают,
// интервалы отсортированы по часу для стабильного порядка на графике
func (s *AggregatorService) BuildHourlyPattern(records []models.ClassifiedRecord) []models.HourlyPattern {
	byHour := make(map[int]*models.HourlyPattern)

	for _, record := range records {
		if record.Type != models.EventSignIn || record.Timestamp.IsZero() {
			continue
		}

		hour := record.Timestamp.Hour()
		pattern, ok := byHour[hour]
		if !ok {
			pattern = &models.HourlyPattern{
				Hour:  hour,
				Label: timeparse.HourLabel(hour),
			}
			byHour[hour] = pattern
		}

		if record.IsLate {
			pattern.Late++
		} else {
			pattern.OnTime++
		}
		pattern.MinuteSum += record.Timestamp.Minute()
	}

	hours := make([]int, 0, len(byHour))
	for hour := range byHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	patterns := make([]models.HourlyPattern, 0, len(hours))
	for _, hour := range hours {
		patterns = append(patterns, *byHour[hour])
	}

	s.logger.WithFields(logrus.Fields{
		"records": len(records),
		"hours":   len(patterns),
	}).Debug("Hourly pattern built")

	return patterns
}
