// Package sqlite provides a venue repository that stores its data inside a SQLite database
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
)

const (
	venueFields = `name, genres, address, city, state, phone, imageLink, facebookLink, website, seekingTalent,
                    seekingDescription`
	venueSummarySelect = `SELECT
						v.id AS id,
						v.name AS name,
						v.city AS city,
						v.state AS state,
						COUNT(s.id) AS numUpcomingShows
					FROM
						Venues v
					LEFT OUTER JOIN
						Shows s
					ON
						s.venueId = v.id AND s.startTime > ?
					GROUP BY
						v.id, v.name, v.city, v.state
					ORDER BY
						v.state, v.city, v.id`
	venueShowSelect = `SELECT
						a.id AS artistId,
						a.name AS artistName,
						a.imageLink AS artistImageLink,
						s.startTime AS startTime
					FROM
						Shows s
					JOIN
						Artists a
					ON
						a.id = s.artistId
					WHERE
						s.venueId = ?
					ORDER BY
						s.startTime, s.id`
)

// VenueRepo is a venue repository that stores its data inside a SQLite database
type VenueRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new VenueRepo instance with the given DB and logger instances
func New(db *sqlx.DB, logger *logrus.Entry) *VenueRepo {
	return &VenueRepo{db, logger}
}

// Create creates a new venue
func (r *VenueRepo) Create(v *models.Venue) error {
	r.logger.WithField(log.FldName, v.Name).Debug("Adding new venue")
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Create: Failed to start transaction")
	}
	query := fmt.Sprintf(`INSERT INTO Venues(%s, createdAt, updatedAt)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))`, venueFields)
	res, err := tx.Exec(query,
		v.Name, v.Genres, v.Address, v.City, v.State, v.Phone, v.ImageLink, v.FacebookLink, v.Website,
		v.SeekingTalent, v.SeekingDescription,
	)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to insert venue"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to retrieve last insert ID"))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Create: Failed to commit transaction")
	}
	v.ID = uint(id)
	return nil
}

// Update overwrites all fields of an existing venue
func (r *VenueRepo) Update(v *models.Venue) error {
	r.logger.WithField(log.FldID, v.ID).Debug("Updating venue")
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Update: Failed to start transaction")
	}
	query := `UPDATE Venues SET
        name = ?, genres = ?, address = ?, city = ?, state = ?, phone = ?, imageLink = ?, facebookLink = ?,
        website = ?, seekingTalent = ?, seekingDescription = ?, updatedAt = datetime('now')
    WHERE id = ?`
	res, err := tx.Exec(query,
		v.Name, v.Genres, v.Address, v.City, v.State, v.Phone, v.ImageLink, v.FacebookLink, v.Website,
		v.SeekingTalent, v.SeekingDescription, v.ID,
	)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Update: Failed to update venue"))
	}
	num, err := res.RowsAffected()
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Update: Failed to get number of updated rows"))
	}
	if num == 0 {
		return repos.DoRollback(tx, repos.ErrEntityNotExisting)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Update: Failed to commit transaction")
	}
	return nil
}

// Delete removes an existing venue together with all shows taking place there
func (r *VenueRepo) Delete(id uint) error {
	r.logger.WithField(log.FldID, id).Debug("Deleting venue")
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Delete: Failed to start transaction")
	}
	// Remove the shows first - they cannot exist without their venue
	res, err := tx.Exec("DELETE FROM Shows WHERE venueId = ?", id)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Delete: Failed to remove shows of venue"))
	}
	numShows, _ := res.RowsAffected()
	res, err = tx.Exec("DELETE FROM Venues WHERE id = ?", id)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Delete: Failed to remove venue"))
	}
	num, err := res.RowsAffected()
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Delete: Failed to get number of deleted rows"))
	}
	if num == 0 {
		return repos.DoRollback(tx, repos.ErrEntityNotExisting)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Delete: Failed to commit transaction")
	}
	r.logger.WithFields(logrus.Fields{
		log.FldID:    id,
		log.FldCount: numShows,
	}).Debug("Venue deleted together with its shows")
	return nil
}

// GetByID returns the venue with the given ID
func (r *VenueRepo) GetByID(id uint) (*models.Venue, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading venue")
	query := fmt.Sprintf("SELECT id, %s FROM Venues WHERE id = ?", venueFields)
	var v models.Venue
	err := r.db.Get(&v, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			// Nothing found
			return nil, repos.ErrEntityNotExisting
		}
		return nil, errors.Wrapf(err, "GetByID: Failed to load venue #%d", id)
	}
	return &v, nil
}

// Summaries returns all venues ordered by state, city and ID - each one annotated with the number of shows starting
// after now
func (r *VenueRepo) Summaries(now time.Time) ([]models.LocatedVenue, error) {
	ret := []models.LocatedVenue{}
	if err := r.db.Select(&ret, venueSummarySelect, repos.FormatTime(now)); err != nil {
		return nil, errors.Wrap(err, "Summaries: Failed to query venues")
	}
	return ret, nil
}

// Shows returns all shows taking place at the given venue joined with the artists playing them
func (r *VenueRepo) Shows(venueID uint) ([]models.ArtistShow, error) {
	r.logger.WithField(log.FldVenue, venueID).Debug("Loading shows of venue")
	ret := []models.ArtistShow{}
	if err := r.db.Select(&ret, venueShowSelect, venueID); err != nil {
		return nil, errors.Wrapf(err, "Shows: Failed to query shows of venue #%d", venueID)
	}
	return ret, nil
}
