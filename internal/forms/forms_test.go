package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/fyyur/internal/models"
)

func musicalHop() url.Values {
	return url.Values{
		FldName:               {" The Musical Hop "},
		FldCity:               {"San Francisco"},
		FldState:              {"CA"},
		FldAddress:            {"1015 Folsom Street"},
		FldPhone:              {"123-123-1234"},
		FldGenres:             {"Jazz", "Reggae", "Classical", "Folk"},
		FldImageLink:          {"https://images.unsplash.com/photo-1543900694"},
		FldFacebookLink:       {"https://www.facebook.com/TheMusicalHop"},
		FldWebsite:            {"https://www.themusicalhop.com"},
		FldSeekingTalent:      {"y"},
		FldSeekingDescription: {"We are on the lookout for a local artist to play every two weeks."},
		"csrf_token":          {"ignored"},
		"id":                  {"99"},
	}
}

func TestParseVenue(t *testing.T) {
	v, err := ParseVenue(musicalHop())
	require.NoError(t, err)
	assert.Equal(t, &models.Venue{
		Name:               "The Musical Hop",
		City:               "San Francisco",
		State:              "CA",
		Address:            "1015 Folsom Street",
		Phone:              "123-123-1234",
		Genres:             models.Genres{"Jazz", "Reggae", "Classical", "Folk"},
		ImageLink:          "https://images.unsplash.com/photo-1543900694",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		Website:            "https://www.themusicalhop.com",
		SeekingTalent:      true,
		SeekingDescription: "We are on the lookout for a local artist to play every two weeks.",
	}, v)
}

func TestCheckboxPresence(t *testing.T) {
	vals := musicalHop()
	vals.Set(FldSeekingTalent, "")
	v, err := ParseVenue(vals)
	require.NoError(t, err)
	assert.True(t, v.SeekingTalent)

	vals.Del(FldSeekingTalent)
	v, err = ParseVenue(vals)
	require.NoError(t, err)
	assert.False(t, v.SeekingTalent)
	assert.Equal(t, models.Genres{"Jazz", "Reggae", "Classical", "Folk"}, v.Genres)
}

func TestParseVenueInvalid(t *testing.T) {
	vals := musicalHop()
	vals.Del(FldAddress)
	vals.Set(FldState, "  ")
	vals.Set(FldWebsite, "www.themusicalhop.com")
	_, err := ParseVenue(vals)
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Fields, FldAddress)
	assert.Contains(t, verr.Fields, FldState)
	assert.Contains(t, verr.Fields, FldWebsite)
	assert.Equal(t, "invalid form fields: address, state, website", err.Error())
}

func TestGenresAreFreeText(t *testing.T) {
	vals := musicalHop()
	vals[FldGenres] = []string{"Swing", " ", "Jazz", " Gypsy Punk "}
	vals.Set(FldState, "Bavaria")
	v, err := ParseVenue(vals)
	require.NoError(t, err)
	assert.Equal(t, models.Genres{"Swing", "Jazz", "Gypsy Punk"}, v.Genres)
	assert.Equal(t, "Bavaria", v.State)
}

func TestParseArtist(t *testing.T) {
	a, err := ParseArtist(url.Values{
		FldName:   {"Guns N Petals"},
		FldCity:   {"San Francisco"},
		FldState:  {"CA"},
		FldGenres: {"Rock n Roll"},
		// Ignored for artists
		FldSeekingTalent: {"y"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Guns N Petals", a.Name)
	assert.Equal(t, models.Genres{"Rock n Roll"}, a.Genres)
	assert.False(t, a.SeekingVenue)
	assert.Empty(t, a.Website)

	_, err = ParseArtist(url.Values{FldCity: {"San Francisco"}, FldState: {"CA"}})
	require.IsType(t, &ValidationError{}, err)
	assert.Equal(t, map[string]string{FldName: "This field is required"}, err.(*ValidationError).Fields)
}

func TestParseShow(t *testing.T) {
	s, err := ParseShow(url.Values{
		FldArtistID:  {"4"},
		FldVenueID:   {"1"},
		FldStartTime: {"2019-05-21 21:30:00"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, s.ArtistID)
	assert.EqualValues(t, 1, s.VenueID)
	assert.Equal(t, "2019-05-21 21:30:00", s.StartTime.String())

	_, err = ParseShow(url.Values{FldArtistID: {"four"}, FldVenueID: {"0"}})
	require.IsType(t, &ValidationError{}, err)
	fields := err.(*ValidationError).Fields
	assert.Len(t, fields, 3)
	assert.Equal(t, "This field is required", fields[FldStartTime])
}

func TestParseStartTime(t *testing.T) {
	want := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2035-04-01 20:00:00",
		"2035-04-01T20:00",
		"2035-04-01T20:00:00",
		"2035-04-01T22:00:00+02:00",
	} {
		got, err := ParseStartTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}
	_, err := ParseStartTime("next friday")
	assert.Error(t, err)
}
