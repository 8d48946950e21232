// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the primary keys of users, videos, tweets and playlists.

Keys are version 7 UUIDs: ordered by creation time, so new rows land at the end
of the primary key index, and stored in native 'uuid' columns.
*/
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string. It panics only if the system entropy
// source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
