package internal

import (
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/notify"
	artistrepo "github.com/derWhity/fyyur/internal/repos/artist/sqlite"
	showrepo "github.com/derWhity/fyyur/internal/repos/show/sqlite"
	"github.com/derWhity/fyyur/internal/repos/sqlitetest"
	venuerepo "github.com/derWhity/fyyur/internal/repos/venue/sqlite"
)

// Point in time all service tests see as "now"
var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// recordingPublisher keeps every published event in memory
type recordingPublisher struct {
	sync.Mutex
	events []notify.ListingEvent
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, ev notify.ListingEvent) error {
	p.Lock()
	defer p.Unlock()
	if p.fail {
		return fmt.Errorf("broker gone")
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []notify.EventType {
	p.Lock()
	defer p.Unlock()
	ret := []notify.EventType{}
	for _, ev := range p.events {
		ret = append(ret, ev.Type)
	}
	return ret
}

type fixture struct {
	venues    VenueService
	artists   ArtistService
	shows     ShowService
	showRepo  *showrepo.ShowRepo
	publisher *recordingPublisher
}

func clock() time.Time {
	return testNow
}

// newFixture creates all services on top of a fresh in-memory database - without any data
func newFixture(t *testing.T) *fixture {
	db := sqlitetest.Open(t)
	logger := sqlitetest.Logger()
	pub := &recordingPublisher{}
	sr := showrepo.New(db, logger)
	vs := NewVenueService(venuerepo.New(db, logger), pub, logger)
	vs.(*venueService).now = clock
	as := NewArtistService(artistrepo.New(db, logger), pub, logger)
	as.(*artistService).now = clock
	ss := NewShowService(sr, pub, logger)
	ss.(*showService).now = clock
	return &fixture{venues: vs, artists: as, shows: ss, showRepo: sr, publisher: pub}
}

// newSeededFixture creates the services and fills the database with three venues, three artists and five shows:
//
//	Venue 1 "The Musical Hop" (San Francisco, CA) - Guns N Petals in 2019
//	Venue 2 "The Dueling Pianos Bar" (New York, NY) - no shows
//	Venue 3 "Park Square Live Music & Coffee" (San Francisco, CA) - Matt Quevedo in 2019, The Wild Sax Band 3x in 2035
func newSeededFixture(t *testing.T) *fixture {
	f := newFixture(t)
	ctx := context.Background()
	for _, form := range []url.Values{
		venueForm("The Musical Hop", "San Francisco", "CA", "Jazz", "Reggae", "Classical", "Folk"),
		venueForm("The Dueling Pianos Bar", "New York", "NY", "Classical", "R&B", "Hip-Hop"),
		venueForm("Park Square Live Music & Coffee", "San Francisco", "CA", "Rock n Roll", "Jazz", "Classical", "Folk"),
	} {
		_, err := f.venues.Create(ctx, form)
		require.NoError(t, err)
	}
	for _, form := range []url.Values{
		artistForm("Guns N Petals", "Rock n Roll"),
		artistForm("Matt Quevedo", "Jazz"),
		artistForm("The Wild Sax Band", "Jazz", "Classical"),
	} {
		_, err := f.artists.Create(ctx, form)
		require.NoError(t, err)
	}
	for _, form := range []url.Values{
		showForm(1, 1, "2019-05-21 21:30:00"),
		showForm(2, 3, "2019-06-15 23:00:00"),
		showForm(3, 3, "2035-04-01 20:00:00"),
		showForm(3, 3, "2035-04-08 20:00:00"),
		showForm(3, 3, "2035-04-15 20:00:00"),
	} {
		_, err := f.shows.Create(ctx, form)
		require.NoError(t, err)
	}
	f.publisher.events = nil
	return f
}

func venueForm(name, city, state string, genres ...string) url.Values {
	return url.Values{
		"name":          {name},
		"city":          {city},
		"state":         {state},
		"address":       {"1015 Folsom Street"},
		"phone":         {"123-123-1234"},
		"genres":        genres,
		"image_link":    {"https://example.com/venue.jpg"},
		"facebook_link": {"https://www.facebook.com/venue"},
	}
}

func artistForm(name string, genres ...string) url.Values {
	return url.Values{
		"name":          {name},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"genres":        genres,
		"image_link":    {"https://example.com/artist.jpg"},
		"seeking_venue": {"y"},
	}
}

func showForm(artistID, venueID uint, start string) url.Values {
	return url.Values{
		"artist_id":  {fmt.Sprint(artistID)},
		"venue_id":   {fmt.Sprint(venueID)},
		"start_time": {start},
	}
}
