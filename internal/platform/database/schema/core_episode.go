package schema

// CoreEpisodeTable represents the 'core.episode' table
type CoreEpisodeTable struct {
	Table      string
	ID         string
	NovelID    string
	Number     string
	Title      string
	Body       string
	Status     string
	ReviewerID string
	ReviewedAt string
	ReviewNote string
	CreatedAt  string
	UpdatedAt  string
	DeletedAt  string
}

// CoreEpisode is the schema definition for core.episode
var CoreEpisode = CoreEpisodeTable{
	Table:      "core.episode",
	ID:         "id",
	NovelID:    "novelid",
	Number:     "number",
	Title:      "title",
	Body:       "body",
	Status:     "status",
	ReviewerID: "reviewerid",
	ReviewedAt: "reviewedat",
	ReviewNote: "reviewnote",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
	DeletedAt:  "deletedat",
}

func (t CoreEpisodeTable) Columns() []string {
	return []string{
		t.ID, t.NovelID, t.Number, t.Title, t.Body, t.Status,
		t.ReviewerID, t.ReviewedAt, t.ReviewNote,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
