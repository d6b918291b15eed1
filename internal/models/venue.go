package models

// Venue is a place where shows take place
type Venue struct {
	// Internal ID
	ID uint `db:"id" json:"id"`
	// Name of the venue
	Name string `db:"name" json:"name"`
	// The genres played at the venue - in the order they have been entered
	Genres Genres `db:"genres" json:"genres"`
	// Street address
	Address string `db:"address" json:"address"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	Phone   string `db:"phone" json:"phone"`
	// Link to the venue's picture
	ImageLink    string `db:"imageLink" json:"image_link"`
	FacebookLink string `db:"facebookLink" json:"facebook_link"`
	Website      string `db:"website" json:"website"`
	// Is the venue looking for artists to perform?
	SeekingTalent bool `db:"seekingTalent" json:"seeking_talent"`
	// What kind of talent the venue is looking for
	SeekingDescription string `db:"seekingDescription" json:"seeking_description"`
}

// VenueSummary is the short form of a venue used inside listings and search results
type VenueSummary struct {
	ID   uint   `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	// Number of shows at this venue starting after the time the listing has been queried
	NumUpcomingShows uint `db:"numUpcomingShows" json:"num_upcoming_shows"`
}

// Area groups all venues located in the same city of the same state
type Area struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}

// VenueDetail is a venue together with its shows partitioned into past and upcoming ones
type VenueDetail struct {
	Venue
	PastShows          []ArtistShow `json:"past_shows"`
	UpcomingShows      []ArtistShow `json:"upcoming_shows"`
	PastShowsCount     uint         `json:"past_shows_count"`
	UpcomingShowsCount uint         `json:"upcoming_shows_count"`
}

// LocatedVenue is a venue summary together with the location used for grouping the venue listing
type LocatedVenue struct {
	VenueSummary
	City  string `db:"city" json:"city"`
	State string `db:"state" json:"state"`
}
