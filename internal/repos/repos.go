// Package repos contains the repository interfaces needed in Fyyur
// It exists to prevent circular dependencies between fyyur and the repo implementations
package repos

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/derWhity/fyyur/internal/models"
)

var (
	// ErrEntityNotExisting is fired by a repository when an entity that is loaded, updated or deleted does not exist
	ErrEntityNotExisting = fmt.Errorf("entity does not exist")
	// ErrReferenceNotExisting is fired by a repository when a new entity references another entity that does not
	// exist
	ErrReferenceNotExisting = fmt.Errorf("referenced entity does not exist")
)

// VenueRepo defines a repository that handles storing and querying venues
type VenueRepo interface {
	// Create creates a new venue and sets its generated ID
	Create(v *models.Venue) error
	// Update overwrites all fields of an existing venue
	Update(v *models.Venue) error
	// Delete removes a venue together with all shows taking place there
	Delete(id uint) error
	// GetByID returns the venue with the given ID
	GetByID(id uint) (*models.Venue, error)
	// Summaries returns all venues ordered by state, city and ID - each one with the number of shows starting after
	// the given point in time
	Summaries(now time.Time) ([]models.LocatedVenue, error)
	// Shows returns all shows taking place at the given venue joined with their artists, ordered by start time
	Shows(venueID uint) ([]models.ArtistShow, error)
}

// ArtistRepo defines a repository that handles storing and querying artists
type ArtistRepo interface {
	// Create creates a new artist and sets its generated ID
	Create(a *models.Artist) error
	// Update overwrites all fields of an existing artist
	Update(a *models.Artist) error
	// GetByID returns the artist with the given ID
	GetByID(id uint) (*models.Artist, error)
	// List returns the IDs and names of all artists
	List() ([]models.ArtistListEntry, error)
	// Summaries returns all artists ordered by ID - each one with the number of shows starting after the given
	// point in time
	Summaries(now time.Time) ([]models.ArtistSummary, error)
	// Shows returns all shows played by the given artist joined with their venues, ordered by start time
	Shows(artistID uint) ([]models.VenueShow, error)
}

// ShowRepo defines a repository that handles storing and querying shows
type ShowRepo interface {
	// Create creates a new show and sets its generated ID. Fails with ErrReferenceNotExisting when the artist or the
	// venue does not exist
	Create(s *models.Show) error
	// List returns all shows joined with their venues and artists
	List() ([]models.ShowListing, error)
	// Count returns the number of stored shows
	Count() (uint, error)
}

// -- Helpers for SQLX repos -------------------------------------------------------------------------------------------

// DoRollback rolls back a transaction and catches any error resulting from it while appending the original error
func DoRollback(tx *sqlx.Tx, originalError error) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("doRollback: Transaction rollback failed: %v; Recent error: %v", err, originalError)
	}
	return originalError
}

// FormatTime converts a point in time into the representation show start times are stored with
func FormatTime(t time.Time) string {
	return models.NewShowTime(t).String()
}
