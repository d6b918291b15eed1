package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeLayout is the layout used for storing and rendering show start times. Start times are always kept in UTC with
// a precision of one second.
const TimeLayout = "2006-01-02 15:04:05"

// ShowTime is the point in time a show starts
type ShowTime struct {
	time.Time
}

// NewShowTime creates a ShowTime from the given time, normalized to UTC and truncated to full seconds
func NewShowTime(t time.Time) ShowTime {
	return ShowTime{t.UTC().Truncate(time.Second)}
}

// String renders the start time using TimeLayout
func (t ShowTime) String() string {
	return t.UTC().Format(TimeLayout)
}

// Value implements driver.Valuer
func (t ShowTime) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *ShowTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = NewShowTime(v)
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("Scan: cannot convert %T to ShowTime", src)
}

func (t *ShowTime) parse(s string) error {
	parsed, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("Scan: illegal show time '%s': %v", s, err)
	}
	*t = NewShowTime(parsed)
	return nil
}

// MarshalJSON renders the start time the same way it is stored
func (t ShowTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UpcomingAt tells whether the show starts strictly after the given point in time. A show starting exactly at now
// is not upcoming anymore.
func (t ShowTime) UpcomingAt(now time.Time) bool {
	return t.After(now)
}

// Show is a performance of an artist at a venue
type Show struct {
	ID        uint     `db:"id" json:"id"`
	ArtistID  uint     `db:"artistId" json:"artist_id"`
	VenueID   uint     `db:"venueId" json:"venue_id"`
	StartTime ShowTime `db:"startTime" json:"start_time"`
}

// ArtistShow is a show as seen from a venue - joined with the artist performing it
type ArtistShow struct {
	ArtistID        uint     `db:"artistId" json:"artist_id"`
	ArtistName      string   `db:"artistName" json:"artist_name"`
	ArtistImageLink string   `db:"artistImageLink" json:"artist_image_link"`
	StartTime       ShowTime `db:"startTime" json:"start_time"`
}

// VenueShow is a show as seen from an artist - joined with the venue hosting it
type VenueShow struct {
	VenueID        uint     `db:"venueId" json:"venue_id"`
	VenueName      string   `db:"venueName" json:"venue_name"`
	VenueImageLink string   `db:"venueImageLink" json:"venue_image_link"`
	StartTime      ShowTime `db:"startTime" json:"start_time"`
}

// ShowListing is a show joined with both its venue and its artist
type ShowListing struct {
	VenueID         uint     `db:"venueId" json:"venue_id"`
	VenueName       string   `db:"venueName" json:"venue_name"`
	ArtistID        uint     `db:"artistId" json:"artist_id"`
	ArtistName      string   `db:"artistName" json:"artist_name"`
	ArtistImageLink string   `db:"artistImageLink" json:"artist_image_link"`
	StartTime       ShowTime `db:"startTime" json:"start_time"`
}
