// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// VideosTable represents the 'videos' table.
type VideosTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	Owner       string
	VideoFile   string
	Thumbnail   string
	Duration    string
	Views       string
	IsPublished string
	CreatedAt   string
	UpdatedAt   string
}

// Videos is the schema definition for videos.
var Videos = VideosTable{
	Table:       "videos",
	ID:          "id",
	Title:       "title",
	Description: "description",
	Owner:       "owner",
	VideoFile:   "video_file",
	Thumbnail:   "thumbnail",
	Duration:    "duration",
	Views:       "views",
	IsPublished: "is_published",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all standard column names.
func (t VideosTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Owner, t.VideoFile, t.Thumbnail,
		t.Duration, t.Views, t.IsPublished, t.CreatedAt, t.UpdatedAt,
	}
}
