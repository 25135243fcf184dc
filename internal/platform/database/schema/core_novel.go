package schema

// CoreNovelTable represents the 'core.novel' table
type CoreNovelTable struct {
	Table        string
	ID           string
	AuthorID     string
	Title        string
	Slug         string
	Synopsis     string
	CoverURL     string
	Status       string
	ReviewerID   string
	ReviewedAt   string
	ReviewNote   string
	ViewCount    string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
	SearchVector string
}

// CoreNovel is the schema definition for core.novel
var CoreNovel = CoreNovelTable{
	Table:        "core.novel",
	ID:           "id",
	AuthorID:     "authorid",
	Title:        "title",
	Slug:         "slug",
	Synopsis:     "synopsis",
	CoverURL:     "coverurl",
	Status:       "status",
	ReviewerID:   "reviewerid",
	ReviewedAt:   "reviewedat",
	ReviewNote:   "reviewnote",
	ViewCount:    "viewcount",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
	SearchVector: "searchvector",
}

func (t CoreNovelTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.Title, t.Slug, t.Synopsis, t.CoverURL, t.Status,
		t.ReviewerID, t.ReviewedAt, t.ReviewNote, t.ViewCount,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
