// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PlaylistsTable represents the 'playlists' table.
type PlaylistsTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	Owner       string
	Videos      string
	CreatedAt   string
	UpdatedAt   string
}

// Playlists is the schema definition for playlists.
var Playlists = PlaylistsTable{
	Table:       "playlists",
	ID:          "id",
	Name:        "name",
	Description: "description",
	Owner:       "owner",
	Videos:      "videos",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all standard column names.
func (t PlaylistsTable) Columns() []string {
	return []string{t.ID, t.Name, t.Description, t.Owner, t.Videos, t.CreatedAt, t.UpdatedAt}
}
