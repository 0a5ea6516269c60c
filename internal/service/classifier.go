package service

import (
	"errors"
	"fmt"
	"time"

	"attendance-engine/internal/models"

	"github.com/sirupsen/logrus"
)

// ErrInvalidEvent возвращается для события с неизвестным типом или без времени
var ErrInvalidEvent = errors.New("invalid attendance event")

// DefaultGraceMinutes - льготный интервал после планового начала работы
const DefaultGraceMinutes = 5

// SkippedEvent - диагностика пропущенного события при пакетной классификации
type SkippedEvent struct {
	EmployeeID string
	Reason     string
}

type ClassifierService struct {
	gracePeriod time.Duration
	location    *time.Location
	logger      *logrus.Logger
}

func NewClassifierService(graceMinutes int, location *time.Location) *ClassifierService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if graceMinutes < 0 {
		graceMinutes = DefaultGraceMinutes
	}
	if location == nil {
		location = time.Local
	}

	return &ClassifierService{
		gracePeriod: time.Duration(graceMinutes) * time.Minute,
		location:    location,
		logger:      logger,
	}
}

// Classify проставляет опоздание и статус для события. Чистая функция:
// время берется из события, системные часы не опрашиваются
func (s *ClassifierService) Classify(event models.AttendanceEvent, workingHours *models.WorkingHours) (models.ClassifiedRecord, error) {
	if event.Type != models.EventSignIn && event.Type != models.EventSignOut {
		return models.ClassifiedRecord{}, fmt.Errorf("%w: unknown type '%s'", ErrInvalidEvent, event.Type)
	}
	if event.Timestamp.IsZero() {
		return models.ClassifiedRecord{}, fmt.Errorf("%w: missing timestamp", ErrInvalidEvent)
	}

	record := models.ClassifiedRecord{
		EmployeeID:         event.EmployeeID,
		OrganizationID:     event.OrganizationID,
		Type:               event.Type,
		Timestamp:          event.Timestamp,
		Latitude:           event.Latitude,
		Longitude:          event.Longitude,
		VerificationMethod: event.VerificationMethod,
		Notes:              event.Notes,
		SessionValue:       event.SessionValue,
		Status:             models.StatusOnTime,
	}

	// Опоздание имеет смысл только для прихода
	if event.Type == models.EventSignIn {
		late, err := s.isLate(event.Timestamp, workingHours)
		if err != nil {
			return models.ClassifiedRecord{}, err
		}
		record.IsLate = late
		if late {
			record.Status = models.StatusLate
		}
	}

	return record, nil
}

// isLate сравнивает время прихода с плановым началом + льготный интервал.
// Без заведенного графика приход не считается опозданием - справочник может
// быть неполным, и это осознанное поведение, а не просто умолчание
func (s *ClassifierService) isLate(timestamp time.Time, workingHours *models.WorkingHours) (bool, error) {
	if workingHours == nil {
		return false, nil
	}

	scheduledStart, err := workingHours.StartOnDate(timestamp, s.location)
	if err != nil {
		return false, fmt.Errorf("failed to resolve scheduled start: %w", err)
	}

	// Строго позже границы: приход ровно в start+grace опозданием не считается
	return timestamp.After(scheduledStart.Add(s.gracePeriod)), nil
}

// ComputeDuration - минуты между приходом и уходом с округлением.
// Отрицательный или нулевой результат возвращается как есть: что делать
// с аномалией, решает агрегатор, а не классификатор
func (s *ClassifierService) ComputeDuration(signIn, signOut time.Time) int {
	return int(signOut.Sub(signIn).Round(time.Minute).Minutes())
}

// ClassifyBatch классифицирует пачку событий. Некорректные события
// пропускаются с диагностикой, пачка целиком никогда не отбрасывается
func (s *ClassifierService) ClassifyBatch(events []models.AttendanceEvent, hoursByEmployee map[string]*models.WorkingHours) ([]models.ClassifiedRecord, []SkippedEvent) {
	records := make([]models.ClassifiedRecord, 0, len(events))
	var skipped []SkippedEvent

	for _, event := range events {
		record, err := s.Classify(event, hoursByEmployee[event.EmployeeID])
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"employee_id": event.EmployeeID,
				"type":        event.Type,
			}).WithError(err).Warn("Skipping event during classification")

			skipped = append(skipped, SkippedEvent{
				EmployeeID: event.EmployeeID,
				Reason:     err.Error(),
			})
			continue
		}
		records = append(records, record)
	}

	s.logger.WithFields(logrus.Fields{
		"classified": len(records),
		"skipped":    len(skipped),
	}).Info("Events batch classified")

	return records, skipped
}
