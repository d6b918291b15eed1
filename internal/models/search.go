package models

// VenueSearchResult is the result of a name search on venues
type VenueSearchResult struct {
	// Number of matching venues
	Count uint           `json:"count"`
	Data  []VenueSummary `json:"data"`
}

// ArtistSearchResult is the result of a name search on artists
type ArtistSearchResult struct {
	// Number of matching artists
	Count uint            `json:"count"`
	Data  []ArtistSummary `json:"data"`
}
