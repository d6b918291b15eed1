package internal

import (
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/match"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/notify"
	"github.com/derWhity/fyyur/internal/repos"
)

// ArtistService provides service functions for working with artists
type ArtistService interface {
	// List returns the IDs and names of all artists
	List(ctx context.Context) ([]models.ArtistListEntry, error)
	// Search returns all artists whose name contains the search term - ignoring case
	Search(ctx context.Context, term string) (*models.ArtistSearchResult, error)
	// Get returns an artist together with the past and upcoming shows
	Get(ctx context.Context, id uint) (*models.ArtistDetail, error)
	// GetRecord returns the plain artist record used for prefilling the edit form
	GetRecord(ctx context.Context, id uint) (*models.Artist, error)
	Create(ctx context.Context, form url.Values) (*models.Artist, error)
	// Update overwrites all fields of the artist with the values of the submitted form
	Update(ctx context.Context, id uint, form url.Values) (*models.Artist, error)
}

// -- ArtistService implementation -------------------------------------------------------------------------------------

type artistService struct {
	repo      repos.ArtistRepo
	publisher notify.Publisher
	logger    *logrus.Entry
	now       func() time.Time
}

// NewArtistService creates a new artist service instance
func NewArtistService(repo repos.ArtistRepo, publisher notify.Publisher, logger *logrus.Entry) ArtistService {
	return &artistService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the IDs and names of all artists
func (s *artistService) List(ctx context.Context) ([]models.ArtistListEntry, error) {
	lst, err := s.repo.List()
	if err != nil {
		return nil, errStore("Error while listing artists", err)
	}
	if lst == nil {
		lst = []models.ArtistListEntry{}
	}
	return lst, nil
}

// Search returns all artists whose name contains the search term - ignoring case
func (s *artistService) Search(ctx context.Context, term string) (*models.ArtistSearchResult, error) {
	artists, err := s.repo.Summaries(s.now())
	if err != nil {
		return nil, errStore("Error while searching artists", err)
	}
	m := match.New(term)
	ret := models.ArtistSearchResult{Data: []models.ArtistSummary{}}
	for _, a := range artists {
		if m.Match(a.Name) {
			ret.Data = append(ret.Data, a)
		}
	}
	ret.Count = uint(len(ret.Data))
	ctxhelper.LoggerOr(ctx, s.logger).WithFields(logrus.Fields{
		log.FldSearch: term,
		log.FldCount:  ret.Count,
	}).Debug("Artist search done")
	return &ret, nil
}

// Get returns an artist together with the past and upcoming shows
func (s *artistService) Get(ctx context.Context, id uint) (*models.ArtistDetail, error) {
	now := s.now()
	a, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := s.repo.Shows(id)
	if err != nil {
		return nil, errStore(fmt.Sprintf("Error while retrieving the shows of artist #%d", id), err)
	}
	ret := models.ArtistDetail{
		Artist:        *a,
		PastShows:     []models.VenueShow{},
		UpcomingShows: []models.VenueShow{},
	}
	for _, show := range shows {
		if show.StartTime.UpcomingAt(now) {
			ret.UpcomingShows = append(ret.UpcomingShows, show)
		} else {
			ret.PastShows = append(ret.PastShows, show)
		}
	}
	ret.PastShowsCount = uint(len(ret.PastShows))
	ret.UpcomingShowsCount = uint(len(ret.UpcomingShows))
	return &ret, nil
}

// GetRecord returns the plain artist record
func (s *artistService) GetRecord(ctx context.Context, id uint) (*models.Artist, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapError(err, "Artist", id, fmt.Sprintf("Error while retrieving artist #%d", id))
	}
	return a, nil
}

// Create creates a new artist from the submitted form
func (s *artistService) Create(ctx context.Context, form url.Values) (*models.Artist, error) {
	a, err := forms.ParseArtist(form)
	if err != nil {
		return nil, mapError(err, "Artist", 0, "The artist form contains invalid values")
	}
	if err := s.repo.Create(a); err != nil {
		return nil, mapError(err, "Artist", 0, "Error while creating artist")
	}
	ctxhelper.LoggerOr(ctx, s.logger).WithFields(logrus.Fields{
		log.FldID:   a.ID,
		log.FldName: a.Name,
	}).Info("Artist created")
	publish(ctx, s.publisher, notify.ListingEvent{Type: notify.ArtistListed, ID: a.ID, Name: a.Name}, s.now(),
		ctxhelper.LoggerOr(ctx, s.logger))
	return a, nil
}

// Update overwrites all fields of the artist with the values of the submitted form
func (s *artistService) Update(ctx context.Context, id uint, form url.Values) (*models.Artist, error) {
	a, err := forms.ParseArtist(form)
	if err != nil {
		return nil, mapError(err, "Artist", id, "The artist form contains invalid values")
	}
	a.ID = id
	if err := s.repo.Update(a); err != nil {
		return nil, mapError(err, "Artist", id, fmt.Sprintf("Error while updating artist #%d", id))
	}
	ctxhelper.LoggerOr(ctx, s.logger).WithField(log.FldID, id).Info("Artist updated")
	publish(ctx, s.publisher, notify.ListingEvent{Type: notify.ArtistUpdated, ID: a.ID, Name: a.Name}, s.now(),
		ctxhelper.LoggerOr(ctx, s.logger))
	return a, nil
}
