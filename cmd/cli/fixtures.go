package main

import "github.com/mixlab/mixlab/pkg/models"

var sampleArtists = []models.Artist{
	{ArtistID: "ar-daft-punk", Name: "Daft Punk", Tags: "electronic, house"},
	{ArtistID: "ar-radiohead", Name: "Radiohead", Tags: "alternative, art rock"},
	{ArtistID: "ar-nina-simone", Name: "Nina Simone", Tags: "jazz, soul"},
	{ArtistID: "ar-unknown", Name: "Unknown Artist"},
}

var sampleSongs = []models.Song{
	{SongID: "so-one-more-time", Title: "One More Time", ArtistID: "ar-daft-punk", Year: 2000},
	{SongID: "so-around-the-world", Title: "Around the World", ArtistID: "ar-daft-punk", Year: 1997},
	{SongID: "so-paranoid-android", Title: "Paranoid Android", ArtistID: "ar-radiohead", Year: 1997},
	{SongID: "so-feeling-good", Title: "Feeling Good", ArtistID: "ar-nina-simone", Year: 1965},
	{SongID: "so-untitled", Title: "Untitled", ArtistID: "ar-unknown", Year: 2021},
}

// Key is a pitch class (0 = C ... 11 = B); Mode true is major.
var sampleSongData = []models.SongData{
	{SongID: "so-one-more-time", Tempo: 122.7, Duration: 320.4, Key: 2, Mode: true, TimeSignature: 4, Loudness: -5.9},
	{SongID: "so-around-the-world", Tempo: 121.3, Duration: 429.5, Key: 7, Mode: false, TimeSignature: 4, Loudness: -8.1},
	{SongID: "so-paranoid-android", Tempo: 82.6, Duration: 383.5, Key: 7, Mode: false, TimeSignature: 4, Loudness: -9.4},
	{SongID: "so-feeling-good", Tempo: 72.5, Duration: 177.0, Key: 10, Mode: false, TimeSignature: 4, Loudness: -11.2},
}
