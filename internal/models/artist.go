package models

// Artist is a performer that plays shows at venues
type Artist struct {
	// Internal ID
	ID   uint   `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	// The genres the artist plays - in the order they have been entered
	Genres       Genres `db:"genres" json:"genres"`
	City         string `db:"city" json:"city"`
	State        string `db:"state" json:"state"`
	Phone        string `db:"phone" json:"phone"`
	Website      string `db:"website" json:"website"`
	ImageLink    string `db:"imageLink" json:"image_link"`
	FacebookLink string `db:"facebookLink" json:"facebook_link"`
	// Is the artist looking for venues to perform at?
	SeekingVenue       bool   `db:"seekingVenue" json:"seeking_venue"`
	SeekingDescription string `db:"seekingDescription" json:"seeking_description"`
}

// ArtistSummary is the short form of an artist used inside the artist directory and search results
type ArtistSummary struct {
	ID   uint   `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	// Number of shows of this artist starting after the time the listing has been queried
	NumUpcomingShows uint `db:"numUpcomingShows" json:"num_upcoming_shows"`
}

// ArtistListEntry is an entry of the plain artist directory
type ArtistListEntry struct {
	ID   uint   `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ArtistDetail is an artist together with the shows partitioned into past and upcoming ones
type ArtistDetail struct {
	Artist
	PastShows          []VenueShow `json:"past_shows"`
	UpcomingShows      []VenueShow `json:"upcoming_shows"`
	PastShowsCount     uint        `json:"past_shows_count"`
	UpcomingShowsCount uint        `json:"upcoming_shows_count"`
}
