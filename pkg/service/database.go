package service

import (
	"context"

	"github.com/c9s/rockhopper"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	mysqlMigrations "github.com/c9s/barfeed/pkg/migrations/mysql"
	sqlite3Migrations "github.com/c9s/barfeed/pkg/migrations/sqlite3"
	"github.com/c9s/barfeed/pkg/util/backoff"
)

type DatabaseService struct {
	Driver string
	DSN    string
	DB     *sqlx.DB
}

func NewDatabaseService(driver, dsn string) *DatabaseService {
	if driver == "mysql" {
		var err error
		dsn, err = ReformatMysqlDSN(dsn)
		if err != nil {
			// incorrect mysql dsn is logical exception
			panic(err)
		}
	}

	return &DatabaseService{
		Driver: driver,
		DSN:    dsn,
	}
}

// Connect opens the database, the connection is retried while the server is not ready.
func (s *DatabaseService) Connect(ctx context.Context) error {
	err := backoff.RetryGeneral(ctx, func() (err error) {
		s.DB, err = sqlx.ConnectContext(ctx, s.Driver, s.DSN)
		if err != nil {
			log.WithError(err).Warnf("unable to connect to %s database, retrying", s.Driver)
		}
		return err
	})
	if err != nil {
		return err
	}

	if s.Driver == "sqlite3" {
		_, _ = s.DB.ExecContext(ctx, "PRAGMA journal_mode = WAL")
		_, _ = s.DB.ExecContext(ctx, "PRAGMA synchronous = NORMAL")
	}

	log.Debugf("connected to %s database", s.Driver)
	return nil
}

func (s *DatabaseService) Close() error {
	if s.DB == nil {
		return nil
	}

	return s.DB.Close()
}

// Migrations returns the schema migrations of the driver.
func Migrations(driver string) (rockhopper.MigrationSlice, error) {
	switch driver {
	case "mysql":
		return mysqlMigrations.Migrations(), nil
	case "sqlite3":
		return sqlite3Migrations.Migrations(), nil
	}

	return nil, errors.Errorf("no migrations for the %s driver", driver)
}

// Upgrade applies the migrations newer than the current schema version.
func (s *DatabaseService) Upgrade(ctx context.Context) error {
	dialect, err := rockhopper.LoadDialect(s.Driver)
	if err != nil {
		return err
	}

	migrations, err := Migrations(s.Driver)
	if err != nil {
		return err
	}

	// sqlx.DB is different from sql.DB
	rh := rockhopper.New(s.Driver, dialect, s.DB.DB)

	currentVersion, err := rh.CurrentVersion()
	if err != nil {
		return err
	}

	if err := rockhopper.Up(ctx, rh, migrations, currentVersion, 0); err != nil {
		return errors.Wrapf(err, "unable to upgrade the %s schema from version %d", s.Driver, currentVersion)
	}

	log.Debugf("%s schema upgraded from version %d", s.Driver, currentVersion)
	return nil
}

// ReformatMysqlDSN makes sure the DATE columns are scanned as time.Time.
func ReformatMysqlDSN(dsn string) (string, error) {
	config, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}

	config.ParseTime = true
	dsn = config.FormatDSN()
	return dsn, nil
}
