// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TweetsTable represents the 'tweets' table.
type TweetsTable struct {
	Table     string
	ID        string
	Content   string
	Owner     string
	CreatedAt string
	UpdatedAt string
}

// Tweets is the schema definition for tweets.
var Tweets = TweetsTable{
	Table:     "tweets",
	ID:        "id",
	Content:   "content",
	Owner:     "owner",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names.
func (t TweetsTable) Columns() []string {
	return []string{t.ID, t.Content, t.Owner, t.CreatedAt, t.UpdatedAt}
}
