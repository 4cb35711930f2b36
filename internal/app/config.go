package app

import (
	"time"

	"github.com/fapdigital/editais-backend/internal/pkg/envutil"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type Config struct {
	AdminAPIToken   string
	FrontendOrigins string
	Timezone        string
	Location        *time.Location
	CacheTTL        time.Duration
	SlugMaxAttempts int
	SweepEnabled    bool
	SweepAt         string
	MetricsAddr     string
	OTelService     string
	Environment     string
	Version         string
}

func LoadConfig(log *logger.Logger) Config {
	tz := envutil.GetEnv("TIMEZONE", "America/Sao_Paulo", log)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn("Unknown timezone, falling back to UTC", "timezone", tz, "error", err)
		loc = time.UTC
	}

	cacheTTLSeconds := envutil.GetEnvAsInt("CACHE_TTL_SECONDS", 600, log)

	return Config{
		AdminAPIToken:   envutil.GetEnv("ADMIN_API_TOKEN", "", log),
		FrontendOrigins: envutil.GetEnv("FRONTEND_ORIGINS", "", log),
		Timezone:        tz,
		Location:        loc,
		CacheTTL:        time.Duration(cacheTTLSeconds) * time.Second,
		SlugMaxAttempts: envutil.GetEnvAsInt("SLUG_MAX_ATTEMPTS", 10000, log),
		SweepEnabled:    envutil.GetEnvAsBool("SWEEP_ENABLED", true, log),
		SweepAt:         envutil.GetEnv("SWEEP_AT", "00:05", log),
		MetricsAddr:     envutil.GetEnv("METRICS_ADDR", ":9091", log),
		OTelService:     envutil.GetEnv("OTEL_SERVICE_NAME", "editais-backend", log),
		Environment:     envutil.GetEnv("APP_ENV", "development", log),
		Version:         envutil.GetEnv("APP_VERSION", "dev", log),
	}
}
