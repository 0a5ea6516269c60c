package repository

import (
	"errors"
	"time"

	"attendance-engine/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	SaveEvent(event *models.AttendanceEvent) error
	GetEventsByOrganizationAndRange(orgID string, from, to time.Time) ([]models.AttendanceEvent, error)
	SaveRecord(record *models.ClassifiedRecord) error
	SaveBatch(records []models.ClassifiedRecord) error
	GetByOrganizationAndRange(orgID string, from, to time.Time) ([]models.ClassifiedRecord, error)
	GetByEmployeeAndRange(employeeID string, from, to time.Time) ([]models.ClassifiedRecord, error)
}

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB) (*GormAttendanceRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Автомиграция
	if err := db.AutoMigrate(&models.AttendanceEvent{}, &models.ClassifiedRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendance tables")
		return nil, err
	}

	logger.Info("Attendance repository initialized")

	return &GormAttendanceRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormAttendanceRepository) SaveEvent(event *models.AttendanceEvent) error {
	if !event.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"employee_id": event.EmployeeID,
			"type":        event.Type,
		}).Warn("Invalid attendance event data")
		return errors.New("invalid attendance event data")
	}

	result := r.db.Create(event)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to save attendance event")
		return result.Error
	}

	return nil
}

func (r *GormAttendanceRepository) GetEventsByOrganizationAndRange(orgID string, from, to time.Time) ([]models.AttendanceEvent, error) {
	var events []models.AttendanceEvent

	result := r.db.Where("organization_id = ? AND timestamp BETWEEN ? AND ?", orgID, from, to).
		Order("timestamp ASC").
		Find(&events)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get events by organization and range")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"organization_id": orgID,
		"count":           len(events),
	}).Debug("Retrieved attendance events by organization")

	return events, nil
}

func (r *GormAttendanceRepository) SaveRecord(record *models.ClassifiedRecord) error {
	if !record.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"employee_id": record.EmployeeID,
			"type":        record.Type,
		}).Warn("Invalid classified record data")
		return errors.New("invalid classified record data")
	}

	result := r.db.Create(record)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to save classified record")
		return result.Error
	}

	return nil
}

// SaveBatch сохраняет пачку записей одной вставкой
func (r *GormAttendanceRepository) SaveBatch(records []models.ClassifiedRecord) error {
	if len(records) == 0 {
		return nil
	}

	result := r.db.Create(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to save classified records batch")
		return result.Error
	}

	r.logger.WithField("count", len(records)).Info("Classified records batch saved")
	return nil
}

func (r *GormAttendanceRepository) GetByOrganizationAndRange(orgID string, from, to time.Time) ([]models.ClassifiedRecord, error) {
	var records []models.ClassifiedRecord

	result := r.db.Where("organization_id = ? AND timestamp BETWEEN ? AND ?", orgID, from, to).
		Order("timestamp ASC").
		Find(&records)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get records by organization and range")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"organization_id": orgID,
		"count":           len(records),
	}).Debug("Retrieved classified records by organization")

	return records, nil
}

func (r *GormAttendanceRepository) GetByEmployeeAndRange(employeeID string, from, to time.Time) ([]models.ClassifiedRecord, error) {
	var records []models.ClassifiedRecord

	result := r.db.Where("employee_id = ? AND timestamp BETWEEN ? AND ?", employeeID, from, to).
		Order("timestamp ASC").
		Find(&records)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get records by employee and range")
		return nil, result.Error
	}

	return records, nil
}
