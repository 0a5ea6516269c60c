package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type EngineConfig struct {
	DatabaseURL          string
	OrganizationID       string
	Timezone           string
	GracePeriodMinutes int
	ReportOutput       string
	ReportFrom         string
	ReportTo           string
}

var instance *EngineConfig
var once sync.Once

func GetEngineConfig() *EngineConfig {
	once.Do(func() {
		instance = &EngineConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Warnf("no .env file loaded: %s", err.Error())
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "")
		if instance.DatabaseURL == "" {
			logrus.Fatal("could not get db url")
		}

		instance.OrganizationID = getEnv("ORGANIZATION_ID", "")
		if instance.OrganizationID == "" {
			logrus.Fatal("could not get organization id")
		}

		instance.Timezone = getEnv("TIMEZONE", "Local")
		instance.GracePeriodMinutes = int(getEnvAsInt("GRACE_PERIOD_MINUTES", 5))
		instance.ReportOutput = getEnv("REPORT_OUTPUT", "attendance_report.xlsx")
		instance.ReportFrom = getEnv("REPORT_FROM", "")
		instance.ReportTo = getEnv("REPORT_TO", "")
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}
