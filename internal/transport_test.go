package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/repos/sqlitetest"
	venuerepo "github.com/derWhity/fyyur/internal/repos/venue/sqlite"
)

type testResponse struct {
	OK           bool            `json:"ok"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"errorMessage"`
	ErrorDetails json.RawMessage `json:"errorDetails"`
}

func newTestHandler(t *testing.T) http.Handler {
	f := newSeededFixture(t)
	return MakeHTTPHandler(f.venues, f.artists, f.shows, sqlitetest.Logger())
}

func doRequest(t *testing.T, h http.Handler, method, target string, form url.Values) (*httptest.ResponseRecorder, testResponse) {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var res testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return rec, res
}

func TestHTTPListVenues(t *testing.T) {
	h := newTestHandler(t)
	rec, res := doRequest(t, h, http.MethodGet, "/api/venues", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.OK)
	var areas []struct {
		City   string `json:"city"`
		State  string `json:"state"`
		Venues []struct {
			ID               uint   `json:"id"`
			Name             string `json:"name"`
			NumUpcomingShows uint   `json:"num_upcoming_shows"`
		} `json:"venues"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &areas))
	require.Len(t, areas, 2)
	assert.Equal(t, "San Francisco", areas[0].City)
	assert.Len(t, areas[0].Venues, 2)
	assert.EqualValues(t, 3, areas[0].Venues[1].NumUpcomingShows)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestHTTPSearch(t *testing.T) {
	h := newTestHandler(t)
	var result struct {
		Count uint `json:"count"`
	}

	_, res := doRequest(t, h, http.MethodPost, "/api/venues/search", url.Values{"search_term": {"Music"}})
	require.NoError(t, json.Unmarshal(res.Data, &result))
	assert.EqualValues(t, 2, result.Count)

	_, res = doRequest(t, h, http.MethodGet, "/api/venues/search?search_term=hop", nil)
	require.NoError(t, json.Unmarshal(res.Data, &result))
	assert.EqualValues(t, 1, result.Count)

	_, res = doRequest(t, h, http.MethodPost, "/api/artists/search", url.Values{"search_term": {"sax"}})
	require.NoError(t, json.Unmarshal(res.Data, &result))
	assert.EqualValues(t, 1, result.Count)
}

func TestHTTPGetVenue(t *testing.T) {
	h := newTestHandler(t)
	rec, res := doRequest(t, h, http.MethodGet, "/api/venues/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &detail))
	assert.Equal(t, "The Musical Hop", detail["name"])
	assert.EqualValues(t, 1, detail["past_shows_count"])
	assert.EqualValues(t, 0, detail["upcoming_shows_count"])
	assert.Equal(t, []interface{}{"Jazz", "Reggae", "Classical", "Folk"}, detail["genres"])
	show := detail["past_shows"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Guns N Petals", show["artist_name"])
	assert.Equal(t, "2019-05-21 21:30:00", show["start_time"])

	rec, res = doRequest(t, h, http.MethodGet, "/api/venues/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, res.OK)
	assert.Equal(t, ErrCodeNotFound, res.Error)
	assert.Equal(t, "Venue #42 does not exist", res.ErrorMessage)
}

func TestHTTPCreateVenue(t *testing.T) {
	h := newTestHandler(t)
	rec, res := doRequest(t, h, http.MethodPost, "/api/venues/create",
		venueForm("The Dueling Pianos Bar", "New York", "NY", "Classical"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.OK)
	assert.Equal(t, "Venue The Dueling Pianos Bar was successfully listed!", res.Message)

	form := venueForm("", "New York", "NY")
	form.Del("name")
	rec, res = doRequest(t, h, http.MethodPost, "/api/venues/create", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeConstraintViolation, res.Error)
	assert.Equal(t, "An error occurred. Venue could not be listed.", res.Message)
	assert.JSONEq(t, `{"name":"This field is required"}`, string(res.ErrorDetails))
}

func TestHTTPEditVenue(t *testing.T) {
	h := newTestHandler(t)
	rec, res := doRequest(t, h, http.MethodGet, "/api/venues/2/edit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &record))
	assert.Equal(t, "The Dueling Pianos Bar", record["name"])
	assert.NotContains(t, record, "past_shows")

	rec, res = doRequest(t, h, http.MethodPost, "/api/venues/2/edit",
		venueForm("The Dueling Pianos", "New York", "NY", "Classical"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Venue The Dueling Pianos was successfully updated!", res.Message)

	rec, res = doRequest(t, h, http.MethodPost, "/api/venues/42/edit", venueForm("Ghost", "Reno", "NV"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "An error occurred. Venue Ghost could not be updated.", res.Message)
}

func TestHTTPDeleteVenue(t *testing.T) {
	h := newTestHandler(t)
	rec, res := doRequest(t, h, http.MethodDelete, "/api/venues/3", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Venue Park Square Live Music & Coffee was successfully deleted!", res.Message)

	_, res = doRequest(t, h, http.MethodGet, "/api/shows", nil)
	var shows []map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &shows))
	assert.Len(t, shows, 1)

	rec, res = doRequest(t, h, http.MethodDelete, "/api/venues/3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "An error occurred. Venue #3 could not be deleted.", res.Message)
}

func TestHTTPArtists(t *testing.T) {
	h := newTestHandler(t)
	_, res := doRequest(t, h, http.MethodGet, "/api/artists", nil)
	assert.JSONEq(t,
		`[{"id":1,"name":"Guns N Petals"},{"id":2,"name":"Matt Quevedo"},{"id":3,"name":"The Wild Sax Band"}]`,
		string(res.Data),
	)

	rec, res := doRequest(t, h, http.MethodGet, "/api/artists/3", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &detail))
	assert.EqualValues(t, 3, detail["upcoming_shows_count"])
	assert.EqualValues(t, 0, detail["past_shows_count"])

	rec, res = doRequest(t, h, http.MethodPost, "/api/artists/create", artistForm("Matt Quevedo", "Jazz"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Artist Matt Quevedo was successfully listed!", res.Message)

	rec, res = doRequest(t, h, http.MethodPost, "/api/artists/1/edit", artistForm("Guns N Roses", "Rock n Roll"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Artist Guns N Roses was successfully updated!", res.Message)
}

func TestHTTPShows(t *testing.T) {
	h := newTestHandler(t)
	_, res := doRequest(t, h, http.MethodGet, "/api/shows", nil)
	var shows []map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &shows))
	require.Len(t, shows, 5)
	assert.Equal(t, map[string]interface{}{
		"venue_id":          float64(1),
		"venue_name":        "The Musical Hop",
		"artist_id":         float64(1),
		"artist_name":       "Guns N Petals",
		"artist_image_link": "https://example.com/artist.jpg",
		"start_time":        "2019-05-21 21:30:00",
	}, shows[0])

	rec, res := doRequest(t, h, http.MethodPost, "/api/shows/create", showForm(1, 2, "2035-06-01 20:00:00"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Show was successfully listed!", res.Message)

	rec, res = doRequest(t, h, http.MethodPost, "/api/shows/create", showForm(1, 77, "2035-06-01 20:00:00"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeConstraintViolation, res.Error)
	assert.Equal(t, "An error occurred. Show could not be listed.", res.Message)

	_, res = doRequest(t, h, http.MethodGet, "/api/shows", nil)
	require.NoError(t, json.Unmarshal(res.Data, &shows))
	assert.Len(t, shows, 6)
}

func TestHTTPRequestIDPassedThrough(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/artists", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestHTTPAlive(t *testing.T) {
	h := newTestHandler(t)
	rec, res := doRequest(t, h, http.MethodGet, "/alive", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.OK)
}

func TestHTTPStoreFailureHidesCause(t *testing.T) {
	db := sqlitetest.Open(t)
	_, err := db.Exec(`DROP TABLE Shows`)
	require.NoError(t, err)
	base, hook := test.NewNullLogger()
	logger := logrus.NewEntry(base)
	f := newFixture(t)
	vs := NewVenueService(venuerepo.New(db, logger), f.publisher, logger)
	h := MakeHTTPHandler(vs, f.artists, f.shows, logger)

	rec, res := doRequest(t, h, http.MethodGet, "/api/venues", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrCodeStoreUnavailable, res.Error)
	assert.Equal(t, "Error while listing venues", res.ErrorMessage)
	assert.Empty(t, res.ErrorDetails)
	assert.NotContains(t, rec.Body.String(), "Shows")

	var logged *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "Endpoint call failed" {
			logged = e
		}
	}
	require.NotNil(t, logged)
	assert.Equal(t, logrus.ErrorLevel, logged.Level)
	assert.Equal(t, "venues.listByArea", logged.Data[log.FldEndpoint])
	assert.Contains(t, logged.Data[log.FldCause], "Shows")
}
