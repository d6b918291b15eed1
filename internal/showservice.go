package internal

import (
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/notify"
	"github.com/derWhity/fyyur/internal/repos"
)

// ShowService provides service functions for working with shows
type ShowService interface {
	// List returns all shows joined with their venues and artists
	List(ctx context.Context) ([]models.ShowListing, error)
	// Create creates a new show from the submitted form. The referenced artist and venue must exist.
	Create(ctx context.Context, form url.Values) (*models.Show, error)
}

// -- ShowService implementation ---------------------------------------------------------------------------------------

type showService struct {
	repo      repos.ShowRepo
	publisher notify.Publisher
	logger    *logrus.Entry
	now       func() time.Time
}

// NewShowService creates a new show service instance
func NewShowService(repo repos.ShowRepo, publisher notify.Publisher, logger *logrus.Entry) ShowService {
	return &showService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns all shows joined with their venues and artists
func (s *showService) List(ctx context.Context) ([]models.ShowListing, error) {
	lst, err := s.repo.List()
	if err != nil {
		return nil, errStore("Error while listing shows", err)
	}
	if lst == nil {
		lst = []models.ShowListing{}
	}
	return lst, nil
}

// Create creates a new show from the submitted form
func (s *showService) Create(ctx context.Context, form url.Values) (*models.Show, error) {
	show, err := forms.ParseShow(form)
	if err != nil {
		return nil, mapError(err, "Show", 0, "The show form contains invalid values")
	}
	if err := s.repo.Create(show); err != nil {
		return nil, mapError(err, "Show", 0, "Error while creating show")
	}
	logger := ctxhelper.LoggerOr(ctx, s.logger)
	logger.WithFields(logrus.Fields{
		log.FldID:     show.ID,
		log.FldArtist: show.ArtistID,
		log.FldVenue:  show.VenueID,
	}).Info("Show created")
	publish(ctx, s.publisher, notify.ListingEvent{
		Type:     notify.ShowListed,
		ID:       show.ID,
		ArtistID: show.ArtistID,
		VenueID:  show.VenueID,
	}, s.now(), logger)
	return show, nil
}
