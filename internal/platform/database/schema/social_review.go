package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table     string
	ID        string
	UserID    string
	NovelID   string
	Score     string
	Body      string
	CreatedAt string
	UpdatedAt string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:     "social.review",
	ID:        "id",
	UserID:    "userid",
	NovelID:   "novelid",
	Score:     "score",
	Body:      "body",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
