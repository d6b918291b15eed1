// Package migrate handles SQL database migration for the internal Fyyur database
package migrate

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var migrations []dbMigration

type dbMigration struct {
	Version uint
	Queries []string
}

// Execute runs the current DB migration on the given database
func (mig *dbMigration) Execute(db *sqlx.DB, logger *logrus.Entry) error {
	// Check if the migration has already run
	query := `SELECT success FROM Migrations WHERE version = $1`
	var success = false
	err := db.QueryRow(query, mig.Version).Scan(&success)
	if err != nil && err != sql.ErrNoRows {
		logger.WithError(err).Error("Failed to fetch version information")
		return err
	}
	if success {
		return nil
	}
	logger.Infof("Executing DB migration #%d", mig.Version)
	tx, err := db.Beginx()
	if err != nil {
		logger.WithError(err).Error("Failed to start migration transaction")
		return err
	}
	for i, query := range mig.Queries {
		logger.Debugf("Query %d of %d...", (i + 1), len(mig.Queries))
		if _, err := tx.Exec(query); err != nil {
			logger.WithError(err).Errorf("Query #%d failed", (i + 1))
			tx.Rollback()
			db.Exec(`REPLACE INTO Migrations(version, success) VALUES($1, 0)`, mig.Version)
			return err
		}
	}
	// Queries executed successfully - save our status
	if _, err := tx.Exec(`REPLACE INTO Migrations(version, success) VALUES($1, 1)`, mig.Version); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ExecuteMigrationsOnDb executes the database migrations on the given database instance
func ExecuteMigrationsOnDb(db *sqlx.DB, logger *logrus.Entry) error {
	// Create the migrations table if it does not exist, yet
	query := `CREATE TABLE IF NOT EXISTS Migrations (
                version   INTEGER NOT NULL,
                success   INTEGER NOT NULL DEFAULT 0,
                PRIMARY KEY(version)
            )`
	if _, err := db.Exec(query); err != nil {
		logger.WithError(err).Error("Failed to create migrations table")
		return err
	}
	for _, mig := range migrations {
		if err := mig.Execute(db, logger); err != nil {
			logger.WithError(err).Errorf("Failed to execute migration #%d", mig.Version)
			return err
		}
	}
	return nil
}

// For now, the migrations are part of the package...
func init() {
	migrations = []dbMigration{
		{
			Version: 1,
			Queries: []string{
				`CREATE TABLE "Venues" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    name VARCHAR(120) NOT NULL,
                    genres TEXT NOT NULL DEFAULT '[]',
                    address VARCHAR(120) NOT NULL DEFAULT '',
                    city VARCHAR(120) NOT NULL DEFAULT '',
                    state VARCHAR(120) NOT NULL DEFAULT '',
                    phone VARCHAR(120) NOT NULL DEFAULT '',
                    imageLink VARCHAR(500) NOT NULL DEFAULT '',
                    facebookLink VARCHAR(120) NOT NULL DEFAULT '',
                    website VARCHAR(120) NOT NULL DEFAULT '',
                    seekingTalent BOOLEAN NOT NULL DEFAULT 0,
                    seekingDescription VARCHAR(500) NOT NULL DEFAULT '',
                    createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
				`CREATE TABLE "Artists" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    name VARCHAR(120) NOT NULL,
                    genres TEXT NOT NULL DEFAULT '[]',
                    city VARCHAR(120) NOT NULL DEFAULT '',
                    state VARCHAR(120) NOT NULL DEFAULT '',
                    phone VARCHAR(120) NOT NULL DEFAULT '',
                    website VARCHAR(120) NOT NULL DEFAULT '',
                    imageLink VARCHAR(500) NOT NULL DEFAULT '',
                    facebookLink VARCHAR(120) NOT NULL DEFAULT '',
                    seekingVenue BOOLEAN NOT NULL DEFAULT 0,
                    seekingDescription VARCHAR(500) NOT NULL DEFAULT '',
                    createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
				`CREATE TABLE "Shows" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    artistId INTEGER NOT NULL REFERENCES Artists(id),
                    venueId INTEGER NOT NULL REFERENCES Venues(id) ON DELETE CASCADE,
                    startTime DATETIME NOT NULL,
                    createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
			},
		},
		{
			Version: 2,
			Queries: []string{
				`CREATE INDEX idx_venue_location ON Venues (state ASC, city ASC);`,
				`CREATE INDEX idx_show_venue ON Shows (venueId ASC, startTime ASC);`,
				`CREATE INDEX idx_show_artist ON Shows (artistId ASC, startTime ASC);`,
			},
		},
	}
}
