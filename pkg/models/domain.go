package models

// Artist is a row of the Artists table.
type Artist struct {
	ArtistID string // Primary key
	Name     string
	Tags     string // Free text; empty is stored as NULL
}

// Song is a row of the Songs table.
type Song struct {
	SongID   string // Primary key
	Title    string
	ArtistID string // References Artists.artist_id
	Year     int
}

// SongData holds the audio features of one song.
type SongData struct {
	SongID        string  // Primary key, references Songs.song_id
	Tempo         float64 // BPM, > 0
	Duration      float64 // Seconds, > 0
	Key           int     // Pitch class 0-11
	Mode          bool    // true = major
	TimeSignature int     // Beats per bar, > 0
	Loudness      float64 // dB
}

// TableStat is the row count of one schema table.
type TableStat struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}
