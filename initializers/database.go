package initializers

import (
	"database/sql"
	"time"

	"github.com/Taraweeh/migrations"
	"github.com/avast/retry-go/v4"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

var DB *goqu.Database

func ConnectDB() {
	dsn := Getenv("DATABASE_URL", Getenv("DB_URL", ""))

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	db.SetMaxOpenConns(GetenvInt("DB_MAX_OPEN_CONNS", 4))
	db.SetMaxIdleConns(GetenvInt("DB_MAX_IDLE_CONNS", 3))
	db.SetConnMaxLifetime(300 * time.Second)

	err = retry.Do(
		db.Ping,
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	DB = goqu.New("postgres", db)

	if Getenv("RUN_MIGRATIONS", "false") == "true" {
		if err := RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}
}

// RunMigrations applies the embedded SQL migrations.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
