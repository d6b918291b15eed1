// Package forms decodes submitted HTML form values into venues, artists and shows
//
// Only the known field names are read from a submission - everything else is ignored. Values are trimmed,
// checkboxes are coerced by their presence and the result is validated the same way for creating and editing.
package forms

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/derWhity/fyyur/internal/models"
)

// Field names used inside the submitted forms
const (
	FldName               = "name"
	FldCity               = "city"
	FldState              = "state"
	FldAddress            = "address"
	FldPhone              = "phone"
	FldGenres             = "genres"
	FldImageLink          = "image_link"
	FldFacebookLink       = "facebook_link"
	FldWebsite            = "website"
	FldSeekingTalent      = "seeking_talent"
	FldSeekingVenue       = "seeking_venue"
	FldSeekingDescription = "seeking_description"
	FldArtistID           = "artist_id"
	FldVenueID            = "venue_id"
	FldStartTime          = "start_time"
)

// Layouts accepted for the start time of a show
var startTimeLayouts = []string{
	models.TimeLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ValidationError is returned when at least one field of a submission is missing or invalid
type ValidationError struct {
	// Maps the field name to the problem found with it
	Fields map[string]string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid form fields: %s", strings.Join(names, ", "))
}

// collects the problems found while decoding a single form
type checker struct {
	values url.Values
	errs   map[string]string
}

func newChecker(values url.Values) *checker {
	return &checker{values: values, errs: map[string]string{}}
}

func (c *checker) fail(field, msg string) {
	if _, ok := c.errs[field]; !ok {
		c.errs[field] = msg
	}
}

func (c *checker) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.errs}
}

func (c *checker) str(field string) string {
	return strings.TrimSpace(c.values.Get(field))
}

func (c *checker) required(field string) string {
	val := c.str(field)
	if val == "" {
		c.fail(field, "This field is required")
	}
	return val
}

// A checkbox is checked as soon as its key is present - no matter which value has been sent
func (c *checker) checkbox(field string) bool {
	_, ok := c.values[field]
	return ok
}

// Genres are free-text tags kept in the order they were submitted. Blank entries are dropped.
func (c *checker) genres() models.Genres {
	ret := models.Genres{}
	for _, g := range c.values[FldGenres] {
		if g = strings.TrimSpace(g); g != "" {
			ret = append(ret, g)
		}
	}
	return ret
}

func (c *checker) link(field string) string {
	val := c.str(field)
	if val == "" {
		return val
	}
	u, err := url.Parse(val)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.fail(field, "Invalid URL")
	}
	return val
}

func (c *checker) id(field string) uint {
	val := c.required(field)
	if val == "" {
		return 0
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		c.fail(field, fmt.Sprintf("'%s' is no valid ID", val))
		return 0
	}
	return uint(id)
}

func (c *checker) startTime() models.ShowTime {
	val := c.required(FldStartTime)
	if val == "" {
		return models.ShowTime{}
	}
	t, err := ParseStartTime(val)
	if err != nil {
		c.fail(FldStartTime, err.Error())
		return models.ShowTime{}
	}
	return models.NewShowTime(t)
}

// ParseStartTime parses a show's start time in one of the accepted layouts. Times without zone information are
// taken as UTC.
func ParseStartTime(s string) (time.Time, error) {
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("'%s' is no valid date and time", s)
}

// ParseVenue decodes the venue form. The ID of the returned venue is always zero.
func ParseVenue(values url.Values) (*models.Venue, error) {
	c := newChecker(values)
	v := &models.Venue{
		Name:               c.required(FldName),
		City:               c.required(FldCity),
		State:              c.required(FldState),
		Address:            c.required(FldAddress),
		Phone:              c.str(FldPhone),
		Genres:             c.genres(),
		ImageLink:          c.link(FldImageLink),
		FacebookLink:       c.link(FldFacebookLink),
		Website:            c.link(FldWebsite),
		SeekingTalent:      c.checkbox(FldSeekingTalent),
		SeekingDescription: c.str(FldSeekingDescription),
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseArtist decodes the artist form. The ID of the returned artist is always zero.
func ParseArtist(values url.Values) (*models.Artist, error) {
	c := newChecker(values)
	a := &models.Artist{
		Name:               c.required(FldName),
		City:               c.required(FldCity),
		State:              c.required(FldState),
		Phone:              c.str(FldPhone),
		Genres:             c.genres(),
		ImageLink:          c.link(FldImageLink),
		FacebookLink:       c.link(FldFacebookLink),
		Website:            c.link(FldWebsite),
		SeekingVenue:       c.checkbox(FldSeekingVenue),
		SeekingDescription: c.str(FldSeekingDescription),
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseShow decodes the show form
func ParseShow(values url.Values) (*models.Show, error) {
	c := newChecker(values)
	s := &models.Show{
		ArtistID:  c.id(FldArtistID),
		VenueID:   c.id(FldVenueID),
		StartTime: c.startTime(),
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return s, nil
}
