// Package sqlite provides an artist repository that stores its data inside a SQLite database
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
	artistFields = `name, genres, city, state, phone, website, imageLink, facebookLink, seekingVenue,
                    seekingDescription`
	artistSummarySelect = `SELECT
						a.id AS id,
						a.name AS name,
						COUNT(s.id) AS numUpcomingShows
					FROM
						Artists a
					LEFT OUTER JOIN
						Shows s
					ON
						s.artistId = a.id AND s.startTime > ?
					GROUP BY
						a.id, a.name
					ORDER BY
						a.id`
	artistShowSelect = `SELECT
						v.id AS venueId,
						v.name AS venueName,
						v.imageLink AS venueImageLink,
						s.startTime AS startTime
					FROM
						Shows s
					JOIN
						Venues v
					ON
						v.id = s.venueId
					WHERE
						s.artistId = ?
					ORDER BY
						s.startTime, s.id`
)

// ArtistRepo is an artist repository that stores its data inside a SQLite database
type ArtistRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new artist repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *ArtistRepo {
	return &ArtistRepo{
		db:     db,
		logger: logger,
	}
}

// Create creates a new artist
func (r *ArtistRepo) Create(a *models.Artist) error {
	r.logger.WithField(log.FldName, a.Name).Debug("Adding new artist")
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Create: Failed to start transaction")
	}
	query := fmt.Sprintf(`INSERT INTO Artists(%s, createdAt, updatedAt)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))`, artistFields)
	res, err := tx.Exec(query,
		a.Name, a.Genres, a.City, a.State, a.Phone, a.Website, a.ImageLink, a.FacebookLink, a.SeekingVenue,
		a.SeekingDescription,
	)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to insert artist"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to retrieve last insert ID"))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Create: Failed to commit transaction")
	}
	a.ID = uint(id)
	return nil
}

// Update overwrites all fields of the given artist
func (r *ArtistRepo) Update(a *models.Artist) error {
	r.logger.WithField(log.FldID, a.ID).Debug("Updating artist")
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Update: Failed to start transaction")
	}
	query := `UPDATE Artists SET
        name = ?, genres = ?, city = ?, state = ?, phone = ?, website = ?, imageLink = ?, facebookLink = ?,
        seekingVenue = ?, seekingDescription = ?, updatedAt = datetime('now')
    WHERE id = ?`
	res, err := tx.Exec(query,
		a.Name, a.Genres, a.City, a.State, a.Phone, a.Website, a.ImageLink, a.FacebookLink, a.SeekingVenue,
		a.SeekingDescription, a.ID,
	)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Update: Failed to update artist"))
	}
	var num int64
	if num, err = res.RowsAffected(); err != nil {
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

// GetByID returns the artist with the given ID
func (r *ArtistRepo) GetByID(id uint) (*models.Artist, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading artist")
	query := fmt.Sprintf("SELECT id, %s FROM Artists WHERE id = ?", artistFields)
	var a models.Artist
	err := r.db.Get(&a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			// Nothing found
			return nil, repos.ErrEntityNotExisting
		}
		return nil, errors.Wrapf(err, "GetByID: Failed to load artist #%d", id)
	}
	return &a, nil
}

// List returns the IDs and names of all artists
func (r *ArtistRepo) List() ([]models.ArtistListEntry, error) {
	ret := []models.ArtistListEntry{}
	if err := r.db.Select(&ret, "SELECT id, name FROM Artists ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "List: Failed to query artists")
	}
	return ret, nil
}

// Summaries returns all artists annotated with the number of shows starting after now
func (r *ArtistRepo) Summaries(now time.Time) ([]models.ArtistSummary, error) {
	ret := []models.ArtistSummary{}
	if err := r.db.Select(&ret, artistSummarySelect, repos.FormatTime(now)); err != nil {
		return nil, errors.Wrap(err, "Summaries: Failed to query artists")
	}
	return ret, nil
}

// Shows returns all shows played by the given artist joined with the venues hosting them
func (r *ArtistRepo) Shows(artistID uint) ([]models.VenueShow, error) {
	r.logger.WithField(log.FldArtist, artistID).Debug("Loading shows of artist")
	ret := []models.VenueShow{}
	if err := r.db.Select(&ret, artistShowSelect, artistID); err != nil {
		return nil, errors.Wrapf(err, "Shows: Failed to query shows of artist #%d", artistID)
	}
	return ret, nil
}
