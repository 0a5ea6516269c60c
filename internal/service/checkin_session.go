package service

import (
	"errors"
	"sync"
	"time"

	"attendance-engine/internal/models"
	"attendance-engine/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrDuplicateSession возвращается, если уникальное значение не удалось
// получить за отведенное число попыток
var ErrDuplicateSession = errors.New("failed to generate unique checkin session value")

// createRetries - число попыток генерации значения при коллизии
const createRetries = 3

type CheckinSessionService struct {
	sessionRepo repository.CheckinSessionRepository
	logger      *logrus.Logger

	// Замки по значению сессии: Validate и Deactivate на одном значении
	// взаимно исключаются, разные значения идут параллельно
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// now подменяется в тестах
	now func() time.Time
}

func NewCheckinSessionService(sessionRepo repository.CheckinSessionRepository) *CheckinSessionService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &CheckinSessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
		now:         time.Now,
	}
}

// Create выпускает новую чекин-сессию. Уникальность значения гарантирует
// хранилище: коллизия вызывает повторную генерацию, а не ошибку пользователю
func (s *CheckinSessionService) Create(locationTag string, durationHours int) (*models.CheckinSession, error) {
	if durationHours <= 0 {
		durationHours = models.DefaultSessionDurationHours
	}

	s.logger.WithFields(logrus.Fields{
		"location":       locationTag,
		"duration_hours": durationHours,
	}).Info("Creating checkin session")

	expiresAt := s.now().Add(time.Duration(durationHours) * time.Hour)

	for attempt := 0; attempt < createRetries; attempt++ {
		session := &models.CheckinSession{
			Value:       uuid.NewString(),
			LocationTag: locationTag,
			ExpiresAt:   expiresAt,
			IsActive:    true,
		}

		err := s.sessionRepo.Create(session)
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"id":         session.ID,
				"location":   locationTag,
				"expires_at": session.ExpiresAt.Format("2006-01-02 15:04:05"),
			}).Info("Checkin session created")
			return session, nil
		}

		if !errors.Is(err, repository.ErrDuplicateValue) {
			s.logger.WithError(err).Error("Failed to create checkin session")
			return nil, err
		}

		s.logger.WithField("attempt", attempt+1).Warn("Checkin session value collision, regenerating")
	}

	s.logger.Error("Checkin session value collisions exhausted retries")
	return nil, ErrDuplicateSession
}

// Validate проверяет, действительна ли сессия сейчас. Неизвестное значение
// дает false без ошибки: снаружи нельзя отличить "не существовала" от
// "уже погашена". Предикат протухания вычисляется под замком значения,
// поэтому Validate не вернет true после завершившегося Deactivate
func (s *CheckinSessionService) Validate(value string) (bool, error) {
	if value == "" {
		return false, nil
	}

	lock := s.lockFor(value)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessionRepo.GetByValue(value)
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up checkin session")
		return false, err
	}

	if session == nil {
		s.logger.Debug("Checkin session not found during validation")
		return false, nil
	}

	valid := session.IsValidAt(s.now())

	s.logger.WithFields(logrus.Fields{
		"location": session.LocationTag,
		"valid":    valid,
	}).Debug("Checkin session validated")

	return valid, nil
}

// Deactivate гасит сессию навсегда. Идемпотентна: повторное гашение
// или неизвестное значение - не ошибка
func (s *CheckinSessionService) Deactivate(value string) error {
	if value == "" {
		return nil
	}

	lock := s.lockFor(value)
	lock.Lock()
	defer lock.Unlock()

	if err := s.sessionRepo.Deactivate(value); err != nil {
		s.logger.WithError(err).Error("Failed to deactivate checkin session")
		return err
	}

	s.logger.Info("Checkin session deactivated")
	return nil
}

// GateEvent пропускает событие дальше по конвейеру. Событие без ссылки на
// сессию проходит всегда; с ссылкой - только пока сессия действительна
func (s *CheckinSessionService) GateEvent(event *models.AttendanceEvent) (bool, error) {
	if event.SessionValue == "" {
		return true, nil
	}

	valid, err := s.Validate(event.SessionValue)
	if err != nil {
		return false, err
	}

	if !valid {
		s.logger.WithFields(logrus.Fields{
			"employee_id": event.EmployeeID,
			"type":        event.Type,
		}).Warn("Event rejected: checkin session not valid")
	}

	return valid, nil
}

// DeactivateExpired гасит активные сессии с истекшим сроком. Необязательная
// уборка: корректность протухания от нее не зависит, срок проверяется
// при каждой валидации
func (s *CheckinSessionService) DeactivateExpired() (int, error) {
	expired, err := s.sessionRepo.ListExpiredActive(s.now())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, session := range expired {
		if err := s.Deactivate(session.Value); err != nil {
			return count, err
		}
		count++
	}

	if count > 0 {
		s.logger.WithField("count", count).Info("Expired checkin sessions deactivated")
	}

	return count, nil
}

// lockFor возвращает замок для значения сессии, создавая его при первом обращении
func (s *CheckinSessionService) lockFor(value string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[value]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[value] = lock
	}
	return lock
}
