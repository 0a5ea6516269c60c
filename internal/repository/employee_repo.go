package repository

import (
	"errors"

	"attendance-engine/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	GetByEmployeeID(employeeID string) (*models.Employee, error)
	DepartmentMap(orgID string) (map[string]string, error)
	WorkingHoursByEmployee(orgID string) (map[string]*models.WorkingHours, error)
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Автомиграция
	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate employees table")
		return nil, err
	}

	logger.Info("Employee repository initialized")

	return &GormEmployeeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	if !employee.IsValid() {
		r.logger.WithField("employee_id", employee.EmployeeID).Warn("Invalid employee data")
		return errors.New("invalid employee data")
	}

	result := r.db.Create(employee)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create employee")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":          employee.ID,
		"employee_id": employee.EmployeeID,
		"department":  employee.Department,
	}).Info("Employee created successfully")

	return nil
}

func (r *GormEmployeeRepository) GetByEmployeeID(employeeID string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.Where("employee_id = ?", employeeID).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("employee_id", employeeID).Debug("Employee not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by employee_id")
		return nil, result.Error
	}

	return &employee, nil
}

// DepartmentMap возвращает соответствие сотрудник -> отдел для организации.
// Сотрудники без отдела в карту не попадают: их свертка отнесет в "Unknown"
func (r *GormEmployeeRepository) DepartmentMap(orgID string) (map[string]string, error) {
	var employees []models.Employee

	result := r.db.Where("organization_id = ?", orgID).Order("id ASC").Find(&employees)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to load department map")
		return nil, result.Error
	}

	departments := make(map[string]string, len(employees))
	for _, e := range employees {
		if e.Department != "" {
			departments[e.EmployeeID] = e.Department
		}
	}

	r.logger.WithFields(logrus.Fields{
		"organization_id": orgID,
		"employees":       len(employees),
	}).Debug("Department map loaded")

	return departments, nil
}

// WorkingHoursByEmployee возвращает графики работы сотрудников организации.
// Сотрудники без заведенного графика в карту не попадают
func (r *GormEmployeeRepository) WorkingHoursByEmployee(orgID string) (map[string]*models.WorkingHours, error) {
	var employees []models.Employee

	result := r.db.Where("organization_id = ?", orgID).Find(&employees)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to load working hours map")
		return nil, result.Error
	}

	hours := make(map[string]*models.WorkingHours, len(employees))
	for _, e := range employees {
		if wh := e.WorkingHours(); wh != nil {
			hours[e.EmployeeID] = wh
		}
	}

	return hours, nil
}
