package repository

import (
	"errors"
	"strings"
	"time"

	"attendance-engine/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrDuplicateValue возвращается при нарушении уникальности значения сессии
var ErrDuplicateValue = errors.New("checkin session value already exists")

type CheckinSessionRepository interface {
	Create(session *models.CheckinSession) error
	GetByValue(value string) (*models.CheckinSession, error)
	Deactivate(value string) error
	ListExpiredActive(now time.Time) ([]*models.CheckinSession, error)
	DeleteByValue(value string) error
}

type GormCheckinSessionRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormCheckinSessionRepository(db *gorm.DB) (*GormCheckinSessionRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Автомиграция
	if err := db.AutoMigrate(&models.CheckinSession{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate checkin_sessions table")
		return nil, err
	}

	logger.Info("Checkin session repository initialized")

	return &GormCheckinSessionRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Create вставляет сессию; уникальность value обеспечивает индекс базы
func (r *GormCheckinSessionRepository) Create(session *models.CheckinSession) error {
	if !session.IsValid() {
		r.logger.WithField("value", session.Value).Warn("Invalid checkin session data")
		return errors.New("invalid checkin session data")
	}

	result := r.db.Create(session)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			r.logger.WithField("value", session.Value).Warn("Checkin session value collision")
			return ErrDuplicateValue
		}
		r.logger.WithError(result.Error).Error("Failed to create checkin session")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":         session.ID,
		"location":   session.LocationTag,
		"expires_at": session.ExpiresAt.Format("2006-01-02 15:04:05"),
	}).Info("Checkin session created successfully")

	return nil
}

func (r *GormCheckinSessionRepository) GetByValue(value string) (*models.CheckinSession, error) {
	var session models.CheckinSession
	result := r.db.Where("value = ?", value).First(&session)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.Debug("Checkin session not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get checkin session by value")
		return nil, result.Error
	}

	return &session, nil
}

// Deactivate гасит сессию; отсутствующая или уже погашенная - не ошибка
func (r *GormCheckinSessionRepository) Deactivate(value string) error {
	result := r.db.Model(&models.CheckinSession{}).
		Where("value = ?", value).
		Update("is_active", false)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to deactivate checkin session")
		return result.Error
	}

	r.logger.WithField("rows_affected", result.RowsAffected).Debug("Checkin session deactivated")
	return nil
}

// ListExpiredActive возвращает активные сессии с истекшим сроком на момент now
func (r *GormCheckinSessionRepository) ListExpiredActive(now time.Time) ([]*models.CheckinSession, error) {
	var sessions []*models.CheckinSession

	result := r.db.Where("is_active = ? AND expires_at <= ?", true, now).Find(&sessions)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list expired checkin sessions")
		return nil, result.Error
	}

	r.logger.WithField("count", len(sessions)).Debug("Retrieved expired active checkin sessions")
	return sessions, nil
}

func (r *GormCheckinSessionRepository) DeleteByValue(value string) error {
	result := r.db.Where("value = ?", value).Delete(&models.CheckinSession{})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete checkin session")
		return result.Error
	}

	r.logger.WithField("rows_affected", result.RowsAffected).Info("Checkin session deleted")
	return nil
}

// isUniqueViolation распознает нарушение уникального индекса
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite отдает нарушение уникальности текстом
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
