package export

import (
	"fmt"

	"attendance-engine/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// ExcelReporter выгружает сводки в xlsx: по листу на каждую серию.
// Только табличные значения, оформление графиков - забота потребителя
type ExcelReporter struct {
	logger *logrus.Logger
}

func NewExcelReporter() *ExcelReporter {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ExcelReporter{logger: logger}
}

// Write сохраняет отчет по указанному пути
func (r *ExcelReporter) Write(path string, hourly []models.HourlyPattern, departments []models.DepartmentStat, trend []models.TrendPoint) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := r.writeHourlySheet(f, hourly); err != nil {
		return err
	}
	if err := r.writeDepartmentSheet(f, departments); err != nil {
		return err
	}
	if err := r.writeTrendSheet(f, trend); err != nil {
		return err
	}

	// Убираем лист по умолчанию
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		r.logger.WithError(err).Error("Failed to save report file")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"path":        path,
		"hours":       len(hourly),
		"departments": len(departments),
		"periods":     len(trend),
	}).Info("Report exported")

	return nil
}

func (r *ExcelReporter) writeHourlySheet(f *excelize.File, hourly []models.HourlyPattern) error {
	sheetName := "Hourly Arrivals"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", sheetName, err)
	}

	headers := []string{"Hour", "On Time", "Late", "Total", "Average Arrival"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, p := range hourly {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.Label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.OnTime)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Late)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Count())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.AverageArrival())
	}

	return nil
}

func (r *ExcelReporter) writeDepartmentSheet(f *excelize.File, departments []models.DepartmentStat) error {
	sheetName := "Departments"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", sheetName, err)
	}

	headers := []string{"Department", "Total Days", "Present Days", "Late Days", "Attendance %", "Late Arrival %"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, d := range departments {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), d.Department)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), d.TotalDays)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), d.PresentDays)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), d.LateDays)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), d.AttendanceRate())
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), d.LateArrivalRate())
	}

	return nil
}

func (r *ExcelReporter) writeTrendSheet(f *excelize.File, trend []models.TrendPoint) error {
	sheetName := "Trend"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", sheetName, err)
	}

	headers := []string{"Period", "Attendance %", "Punctuality %"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, p := range trend {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.Period)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.AttendanceRate)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.PunctualityRate)
	}

	return nil
}
