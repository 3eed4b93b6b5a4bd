package artic

// Artwork is one collection record as returned by the artworks endpoint,
// reduced to the fixed field projection the client requests.
type Artwork struct {
	// ID is the stable unique identifier of the record
	ID int `json:"id"`

	// Title of the artwork
	Title string `json:"title"`

	// PlaceOfOrigin is where the artwork was created
	PlaceOfOrigin string `json:"place_of_origin"`

	// ArtistDisplay is the free-text artist description
	ArtistDisplay string `json:"artist_display"`

	// Inscriptions found on the artwork
	Inscriptions string `json:"inscriptions"`

	// DateStart is the earliest creation year (0 = unknown)
	DateStart int `json:"date_start"`

	// DateEnd is the latest creation year (0 = unknown)
	DateEnd int `json:"date_end"`
}

// Pagination is the pagination metadata block of an artworks response.
type Pagination struct {
	// Total is the total number of records in the collection
	Total int `json:"total"`

	// Limit is the page size used for this response
	Limit int `json:"limit"`

	// Offset is the record offset of the first record on this page
	Offset int `json:"offset"`

	// TotalPages is the total page count at this limit
	TotalPages int `json:"total_pages"`

	// CurrentPage is the 1-indexed page number of this response
	CurrentPage int `json:"current_page"`
}

// ArtworksPage is one page of records plus its pagination metadata.
type ArtworksPage struct {
	Data       []Artwork  `json:"data"`
	Pagination Pagination `json:"pagination"`
}
