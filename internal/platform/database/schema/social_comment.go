package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	UserID    string
	NovelID   string
	EpisodeID string
	ParentID  string
	Body      string
	IsDeleted string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	UserID:    "userid",
	NovelID:   "novelid",
	EpisodeID: "episodeid",
	ParentID:  "parentid",
	Body:      "body",
	IsDeleted: "isdeleted",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
