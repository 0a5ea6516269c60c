package main

import (
	"time"

	"attendance-engine/internal/config"
	"attendance-engine/internal/export"
	"attendance-engine/internal/models"
	"attendance-engine/internal/repository"
	"attendance-engine/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetEngineConfig()
	logrus.Info("Config initialized...")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load timezone")
	}

	// Инициализируем SQLite базу данных
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// Создаем репозитории
	attendanceRepo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create employee repository")
	}

	sessionRepo, err := repository.NewGormCheckinSessionRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create checkin session repository")
	}

	// Создаем сервисы движка
	classifier := service.NewClassifierService(cfg.GracePeriodMinutes, loc)
	aggregator := service.NewAggregatorService()
	analyzer := service.NewAnalyzerService()
	sessionService := service.NewCheckinSessionService(sessionRepo)

	from, to := reportRange(cfg, loc)

	// Загружаем сырые события за период
	events, err := attendanceRepo.GetEventsByOrganizationAndRange(cfg.OrganizationID, from, to)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load attendance events")
	}

	workingHours, err := employeeRepo.WorkingHoursByEmployee(cfg.OrganizationID)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load working hours")
	}

	directory, err := employeeRepo.DepartmentMap(cfg.OrganizationID)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load department map")
	}

	// Отсеиваем события с недействительными чекин-сессиями
	accepted := make([]models.AttendanceEvent, 0, len(events))
	for i := range events {
		ok, err := sessionService.GateEvent(&events[i])
		if err != nil {
			logrus.WithError(err).Fatal("Failed to gate attendance event")
		}
		if ok {
			accepted = append(accepted, events[i])
		}
	}

	// Классифицируем и сохраняем записи; битые события пропускаются с диагностикой
	records, skippedEvents := classifier.ClassifyBatch(accepted, workingHours)
	for _, s := range skippedEvents {
		logrus.WithFields(logrus.Fields{
			"employee_id": s.EmployeeID,
			"reason":      s.Reason,
		}).Warn("Event skipped during classification")
	}

	if err := attendanceRepo.SaveBatch(records); err != nil {
		logrus.WithError(err).Fatal("Failed to save classified records")
	}

	// Сводки
	buckets, skipped := aggregator.FoldDaily(records)
	for _, s := range skipped {
		logrus.WithFields(logrus.Fields{
			"employee_id": s.EmployeeID,
			"reason":      s.Reason,
		}).Warn("Record skipped during daily fold")
	}

	hourly := aggregator.BuildHourlyPattern(records)
	departments := analyzer.AnalyzeDepartments(records, directory)
	trend := analyzer.BuildTrend(records, service.TrendWeekly)

	// Выгружаем отчет
	reporter := export.NewExcelReporter()
	if err := reporter.Write(cfg.ReportOutput, hourly, departments, trend); err != nil {
		logrus.WithError(err).Fatal("Failed to export report")
	}

	// Попутная уборка протухших сессий; на корректность не влияет
	deactivated, err := sessionService.DeactivateExpired()
	if err != nil {
		logrus.Infof("Warning: failed to deactivate expired sessions: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"events":               len(events),
		"accepted":             len(accepted),
		"records":              len(records),
		"daily_buckets":        len(buckets),
		"hours":                len(hourly),
		"departments":          len(departments),
		"trend_periods":        len(trend),
		"sessions_deactivated": deactivated,
		"output":               cfg.ReportOutput,
	}).Info("Report run finished")

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}
}

// reportRange определяет период отчета: из конфига или последние 30 дней
func reportRange(cfg *config.EngineConfig, loc *time.Location) (time.Time, time.Time) {
	now := time.Now().In(loc)
	from := now.AddDate(0, 0, -30)
	to := now

	if cfg.ReportFrom != "" {
		parsed, err := time.ParseInLocation("2006-01-02", cfg.ReportFrom, loc)
		if err != nil {
			logrus.WithError(err).Fatal("REPORT_FROM must be YYYY-MM-DD")
		}
		from = parsed
	}

	if cfg.ReportTo != "" {
		parsed, err := time.ParseInLocation("2006-01-02", cfg.ReportTo, loc)
		if err != nil {
			logrus.WithError(err).Fatal("REPORT_TO must be YYYY-MM-DD")
		}
		// Включаем весь день "to"
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	return from, to
}
