package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/notify"
)

func TestListArtists(t *testing.T) {
	f := newFixture(t)
	lst, err := f.artists.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, lst)
	assert.Empty(t, lst)

	f = newSeededFixture(t)
	lst, err = f.artists.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ArtistListEntry{
		{ID: 1, Name: "Guns N Petals"},
		{ID: 2, Name: "Matt Quevedo"},
		{ID: 3, Name: "The Wild Sax Band"},
	}, lst)
}

func TestSearchArtists(t *testing.T) {
	f := newSeededFixture(t)
	ctx := context.Background()

	res, err := f.artists.Search(ctx, "A")
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Count)

	res, err = f.artists.Search(ctx, "band")
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Count)
	assert.Equal(t, []models.ArtistSummary{{ID: 3, Name: "The Wild Sax Band", NumUpcomingShows: 3}}, res.Data)

	res, err = f.artists.Search(ctx, "Quevedo ")
	require.NoError(t, err)
	assert.Zero(t, res.Count)
}

func TestGetArtist(t *testing.T) {
	f := newSeededFixture(t)
	ctx := context.Background()

	a, err := f.artists.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Guns N Petals", a.Name)
	assert.True(t, a.SeekingVenue)
	require.Len(t, a.PastShows, 1)
	assert.Equal(t, models.VenueShow{
		VenueID:        1,
		VenueName:      "The Musical Hop",
		VenueImageLink: "https://example.com/venue.jpg",
		StartTime:      a.PastShows[0].StartTime,
	}, a.PastShows[0])
	assert.Equal(t, "2019-05-21 21:30:00", a.PastShows[0].StartTime.String())
	assert.EqualValues(t, 1, a.PastShowsCount)
	assert.EqualValues(t, 0, a.UpcomingShowsCount)

	a, err = f.artists.Get(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 0, a.PastShowsCount)
	assert.EqualValues(t, 3, a.UpcomingShowsCount)
	assert.Equal(t, "2035-04-01 20:00:00", a.UpcomingShows[0].StartTime.String())

	_, err = f.artists.Get(ctx, 9)
	assert.True(t, IsNotFound(err))
}

func TestCreateArtistPublishes(t *testing.T) {
	f := newFixture(t)
	a, err := f.artists.Create(context.Background(), artistForm("Guns N Petals", "Rock n Roll"))
	require.NoError(t, err)
	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, notify.ArtistListed, ev.Type)
	assert.Equal(t, a.ID, ev.ID)
	assert.Equal(t, "Guns N Petals", ev.Name)
	assert.Equal(t, testNow, ev.At)
}

func TestUpdateArtist(t *testing.T) {
	f := newSeededFixture(t)
	ctx := context.Background()
	form := artistForm("Guns N Roses", "Heavy Metal", "Rock n Roll")
	form.Del("seeking_venue")
	_, err := f.artists.Update(ctx, 1, form)
	require.NoError(t, err)

	a, err := f.artists.GetRecord(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Guns N Roses", a.Name)
	assert.Equal(t, models.Genres{"Heavy Metal", "Rock n Roll"}, a.Genres)
	assert.False(t, a.SeekingVenue)

	form.Set("name", " ")
	_, err = f.artists.Update(ctx, 1, form)
	assert.True(t, IsConstraintViolation(err))
	_, err = f.artists.Update(ctx, 9, artistForm("Nobody"))
	assert.True(t, IsNotFound(err))
}

func TestArtistShowStartingNowIsPast(t *testing.T) {
	f := newSeededFixture(t)
	ctx := context.Background()
	_, err := f.shows.Create(ctx, showForm(2, 2, testNow.Format(models.TimeLayout)))
	require.NoError(t, err)

	a, err := f.artists.Get(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, a.PastShowsCount)
	assert.EqualValues(t, 0, a.UpcomingShowsCount)
	require.Len(t, a.PastShows, 2)
	assert.Empty(t, a.UpcomingShows)

	res, err := f.artists.Search(ctx, "Quevedo")
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.EqualValues(t, 0, res.Data[0].NumUpcomingShows)

	// One second later the show is still upcoming for the search
	_, err = f.shows.Create(ctx, showForm(2, 2, testNow.Add(time.Second).Format(models.TimeLayout)))
	require.NoError(t, err)
	res, err = f.artists.Search(ctx, "Quevedo")
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Data[0].NumUpcomingShows)
	a, err = f.artists.Get(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.UpcomingShowsCount)
}

func TestArtistGenresAreFreeText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.artists.Create(ctx, artistForm("The Wild Sax Band", "Swing", "Jazz"))
	require.NoError(t, err)

	loaded, err := f.artists.GetRecord(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Genres{"Swing", "Jazz"}, loaded.Genres)
}
