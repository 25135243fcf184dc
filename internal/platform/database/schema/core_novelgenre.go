package schema

// CoreNovelGenreTable represents the 'core.novelgenre' junction table
type CoreNovelGenreTable struct {
	Table   string
	NovelID string
	GenreID string
}

// CoreNovelGenre is the schema definition for core.novelgenre
var CoreNovelGenre = CoreNovelGenreTable{
	Table:   "core.novelgenre",
	NovelID: "novelid",
	GenreID: "genreid",
}
