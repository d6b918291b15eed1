// Package sqlite provides a show repository that stores its data inside a SQLite database
package sqlite

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
)

const (
	showListSelect = `SELECT
						v.id AS venueId,
						v.name AS venueName,
						a.id AS artistId,
						a.name AS artistName,
						a.imageLink AS artistImageLink,
						s.startTime AS startTime
					FROM
						Shows s
					JOIN
						Venues v
					ON
						v.id = s.venueId
					JOIN
						Artists a
					ON
						a.id = s.artistId
					ORDER BY
						s.startTime, s.id`
)

// ShowRepo is a show repository that stores its data inside a SQLite database
type ShowRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new ShowRepo
func New(db *sqlx.DB, logger *logrus.Entry) *ShowRepo {
	return &ShowRepo{db, logger}
}

// Create creates a new show after making sure that both the artist and the venue exist
func (r *ShowRepo) Create(s *models.Show) error {
	r.logger.WithFields(logrus.Fields{
		log.FldArtist: s.ArtistID,
		log.FldVenue:  s.VenueID,
	}).Debug("Adding new show")
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Create: Failed to start transaction")
	}
	if err = checkExists(tx, "SELECT id FROM Artists WHERE id = ?", s.ArtistID); err != nil {
		return repos.DoRollback(tx, err)
	}
	if err = checkExists(tx, "SELECT id FROM Venues WHERE id = ?", s.VenueID); err != nil {
		return repos.DoRollback(tx, err)
	}
	query := `INSERT INTO Shows(artistId, venueId, startTime, createdAt) VALUES(?, ?, ?, datetime('now'))`
	res, err := tx.Exec(query, s.ArtistID, s.VenueID, s.StartTime)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to insert show"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to retrieve last insert ID"))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Create: Failed to commit transaction")
	}
	s.ID = uint(id)
	return nil
}

// checkExists runs the given ID query and translates an empty result into repos.ErrReferenceNotExisting
func checkExists(tx *sqlx.Tx, query string, id uint) error {
	var found uint
	if err := tx.Get(&found, query, id); err != nil {
		if err == sql.ErrNoRows {
			return repos.ErrReferenceNotExisting
		}
		return errors.Wrap(err, "checkExists: Failed to query reference")
	}
	return nil
}

// List returns all shows joined with their venues and artists
func (r *ShowRepo) List() ([]models.ShowListing, error) {
	ret := []models.ShowListing{}
	if err := r.db.Select(&ret, showListSelect); err != nil {
		return nil, errors.Wrap(err, "List: Failed to query shows")
	}
	return ret, nil
}

// Count returns the number of stored shows
func (r *ShowRepo) Count() (uint, error) {
	var num uint
	if err := r.db.Get(&num, "SELECT COUNT(*) FROM Shows"); err != nil {
		return 0, errors.Wrap(err, "Count: Failed to count shows")
	}
	return num, nil
}
