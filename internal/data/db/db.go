package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/fapdigital/editais-backend/internal/pkg/envutil"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// Service owns the GORM handle. The driver is chosen by DB_DRIVER:
// "postgres" (default) or "sqlite" for local development and CI.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	driver := envutil.GetEnv("DB_DRIVER", "postgres", logg)
	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := envutil.GetEnv("SQLITE_PATH", "editais.db", logg)
		db, err = gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		db, err = gorm.Open(postgres.Open(postgresDSN(logg)), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
	}

	return &Service{db: db, log: serviceLog}, nil
}

func postgresDSN(logg *logger.Logger) string {
	if dsn := envutil.GetEnv("DATABASE_URL", "", logg); dsn != "" {
		return dsn
	}
	host := envutil.GetEnv("POSTGRES_HOST", "localhost", logg)
	port := envutil.GetEnv("POSTGRES_PORT", "5432", logg)
	user := envutil.GetEnv("POSTGRES_USER", "postgres", logg)
	password := envutil.GetEnv("POSTGRES_PASSWORD", "", logg)
	name := envutil.GetEnv("POSTGRES_NAME", "editais", logg)
	sslmode := envutil.GetEnv("POSTGRES_SSLMODE", "disable", logg)
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, name, sslmode,
	)
}

func (s *Service) DB() *gorm.DB { return s.db }
