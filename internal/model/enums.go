package model

// Genre families covered by the songwriting guide
type Genre string

const (
	GenreHiphop     Genre = "hiphop"
	GenreRock       Genre = "rock"
	GenrePop        Genre = "pop"
	GenreCountry    Genre = "country"
	GenreElectronic Genre = "electronic"
	GenreRnb        Genre = "rnb"
)

var ValidGenres = []Genre{
	GenreHiphop, GenreRock, GenrePop, GenreCountry, GenreElectronic, GenreRnb,
}

// Section types used as structure tags in generated lyrics
type SectionType string

const (
	SectionIntro      SectionType = "Intro"
	SectionVerse      SectionType = "Verse"
	SectionPrechorus  SectionType = "Pre-Chorus"
	SectionChorus     SectionType = "Chorus"
	SectionPostChorus SectionType = "Post-Chorus"
	SectionBridge     SectionType = "Bridge"
	SectionBreak      SectionType = "Break"
	SectionBuildUp    SectionType = "Build-Up"
	SectionDrop       SectionType = "Drop"
	SectionSolo       SectionType = "Solo"
	SectionOutro      SectionType = "Outro"
	SectionEnd        SectionType = "End"
)

var ValidSectionTypes = []SectionType{
	SectionIntro, SectionVerse, SectionPrechorus, SectionChorus, SectionPostChorus,
	SectionBridge, SectionBreak, SectionBuildUp, SectionDrop, SectionSolo,
	SectionOutro, SectionEnd,
}

// Suno field limits, in characters
const (
	MaxLyricsChars           = 5000
	MaxStyleDescriptionChars = 1000
	MaxTitleChars            = 100
)
