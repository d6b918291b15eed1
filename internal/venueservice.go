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

// VenueService provides service functions for working with venues
type VenueService interface {
	// ListByArea returns all venues grouped by the city and state they are located in
	ListByArea(ctx context.Context) ([]models.Area, error)
	// Search returns all venues whose name contains the search term - ignoring case
	Search(ctx context.Context, term string) (*models.VenueSearchResult, error)
	// Get returns a venue together with its past and upcoming shows
	Get(ctx context.Context, id uint) (*models.VenueDetail, error)
	// GetRecord returns the plain venue record used for prefilling the edit form
	GetRecord(ctx context.Context, id uint) (*models.Venue, error)
	Create(ctx context.Context, form url.Values) (*models.Venue, error)
	// Update overwrites all fields of the venue with the values of the submitted form
	Update(ctx context.Context, id uint, form url.Values) (*models.Venue, error)
	// Delete removes the venue and all shows taking place at it. Returns the deleted venue.
	Delete(ctx context.Context, id uint) (*models.Venue, error)
}

// -- VenueService implementation --------------------------------------------------------------------------------------

type venueService struct {
	repo      repos.VenueRepo
	publisher notify.Publisher
	logger    *logrus.Entry
	now       func() time.Time
}

// NewVenueService creates a new venue service instance
func NewVenueService(repo repos.VenueRepo, publisher notify.Publisher, logger *logrus.Entry) VenueService {
	return &venueService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ListByArea returns all venues grouped by the city and state they are located in
func (s *venueService) ListByArea(ctx context.Context) ([]models.Area, error) {
	venues, err := s.repo.Summaries(s.now())
	if err != nil {
		return nil, errStore("Error while listing venues", err)
	}
	// Venues arrive ordered by state and city - so every area is one consecutive run
	areas := []models.Area{}
	for _, v := range venues {
		last := len(areas) - 1
		if last < 0 || areas[last].City != v.City || areas[last].State != v.State {
			areas = append(areas, models.Area{City: v.City, State: v.State, Venues: []models.VenueSummary{}})
			last++
		}
		areas[last].Venues = append(areas[last].Venues, v.VenueSummary)
	}
	return areas, nil
}

// Search returns all venues whose name contains the search term - ignoring case
func (s *venueService) Search(ctx context.Context, term string) (*models.VenueSearchResult, error) {
	venues, err := s.repo.Summaries(s.now())
	if err != nil {
		return nil, errStore("Error while searching venues", err)
	}
	m := match.New(term)
	ret := models.VenueSearchResult{Data: []models.VenueSummary{}}
	for _, v := range venues {
		if m.Match(v.Name) {
			ret.Data = append(ret.Data, v.VenueSummary)
		}
	}
	ret.Count = uint(len(ret.Data))
	ctxhelper.LoggerOr(ctx, s.logger).WithFields(logrus.Fields{
		log.FldSearch: term,
		log.FldCount:  ret.Count,
	}).Debug("Venue search done")
	return &ret, nil
}

// Get returns a venue together with its past and upcoming shows
func (s *venueService) Get(ctx context.Context, id uint) (*models.VenueDetail, error) {
	now := s.now()
	v, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := s.repo.Shows(id)
	if err != nil {
		return nil, errStore(fmt.Sprintf("Error while retrieving the shows of venue #%d", id), err)
	}
	ret := models.VenueDetail{
		Venue:         *v,
		PastShows:     []models.ArtistShow{},
		UpcomingShows: []models.ArtistShow{},
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

// GetRecord returns the plain venue record
func (s *venueService) GetRecord(ctx context.Context, id uint) (*models.Venue, error) {
	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapError(err, "Venue", id, fmt.Sprintf("Error while retrieving venue #%d", id))
	}
	return v, nil
}

// Create creates a new venue from the submitted form
func (s *venueService) Create(ctx context.Context, form url.Values) (*models.Venue, error) {
	v, err := forms.ParseVenue(form)
	if err != nil {
		return nil, mapError(err, "Venue", 0, "The venue form contains invalid values")
	}
	if err := s.repo.Create(v); err != nil {
		return nil, mapError(err, "Venue", 0, "Error while creating venue")
	}
	ctxhelper.LoggerOr(ctx, s.logger).WithFields(logrus.Fields{
		log.FldID:   v.ID,
		log.FldName: v.Name,
	}).Info("Venue created")
	s.notify(ctx, notify.ListingEvent{Type: notify.VenueListed, ID: v.ID, Name: v.Name})
	return v, nil
}

// Update overwrites all fields of the venue with the values of the submitted form
func (s *venueService) Update(ctx context.Context, id uint, form url.Values) (*models.Venue, error) {
	v, err := forms.ParseVenue(form)
	if err != nil {
		return nil, mapError(err, "Venue", id, "The venue form contains invalid values")
	}
	v.ID = id
	if err := s.repo.Update(v); err != nil {
		return nil, mapError(err, "Venue", id, fmt.Sprintf("Error while updating venue #%d", id))
	}
	ctxhelper.LoggerOr(ctx, s.logger).WithField(log.FldID, id).Info("Venue updated")
	s.notify(ctx, notify.ListingEvent{Type: notify.VenueUpdated, ID: v.ID, Name: v.Name})
	return v, nil
}

// Delete removes the venue and all shows taking place at it
func (s *venueService) Delete(ctx context.Context, id uint) (*models.Venue, error) {
	v, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(id); err != nil {
		return nil, mapError(err, "Venue", id, fmt.Sprintf("Error while deleting venue #%d", id))
	}
	ctxhelper.LoggerOr(ctx, s.logger).WithField(log.FldID, id).Info("Venue deleted")
	s.notify(ctx, notify.ListingEvent{Type: notify.VenueRemoved, ID: v.ID, Name: v.Name})
	return v, nil
}

func (s *venueService) notify(ctx context.Context, ev notify.ListingEvent) {
	publish(ctx, s.publisher, ev, s.now(), ctxhelper.LoggerOr(ctx, s.logger))
}

// publish sends a listing event after the change has been committed. Failing to publish never fails the operation.
func publish(ctx context.Context, p notify.Publisher, ev notify.ListingEvent, at time.Time, logger *logrus.Entry) {
	if p == nil {
		return
	}
	ev.At = at.UTC()
	if err := p.Publish(ctx, ev); err != nil {
		logger.WithError(err).WithField(log.FldEvent, ev.Type).Warn("Failed to publish listing event")
	}
}
