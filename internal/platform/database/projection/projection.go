// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package projection renders the owner-joined read queries shared by every
resource store.

Tweets, videos and playlists are all returned with the public view of their
owner. Instead of each store carrying its own join, they describe their table
once with a [Query] and ask it for the statement they need.

Usage:

	var videoView = projection.Query{
	    Table:   schema.Videos.Table,
	    Alias:   "v",
	    Columns: schema.Videos.Columns(),
	}

	row := pool.QueryRow(ctx, videoView.ByID(), id)
	err := row.Scan(append(videoTargets(video), projection.ScanOwner(&video.Owner)...)...)

The join is a LEFT JOIN. A resource whose owner was deleted still loads, with
an empty [Owner].
*/
package projection

import (
	"fmt"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
)

// ownerAlias is the alias of the joined users table.
const ownerAlias = "u"

// Owner is the public view of the account that owns a resource.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Exists reports whether the owner row was found by the join.
func (o Owner) Exists() bool {
	return o.ID != ""
}

// ScanOwner returns the scan targets for the owner columns appended by [Query].
func ScanOwner(owner *Owner) []any {
	return []any{&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar}
}

// Query describes one owned table.
type Query struct {
	Table   string
	Alias   string
	Columns []string

	// OwnerColumn defaults to "owner".
	OwnerColumn string
}

func (q Query) ownerColumn() string {
	if q.OwnerColumn != "" {
		return q.OwnerColumn
	}
	return "owner"
}

// Col qualifies a column with the table alias.
func (q Query) Col(column string) string {
	return q.Alias + "." + column
}

// Select renders the SELECT ... FROM ... LEFT JOIN without any filter.
func (q Query) Select() string {
	cols := make([]string, 0, len(q.Columns)+4)
	for _, column := range q.Columns {
		cols = append(cols, q.Col(column))
	}

	users := schema.Users
	cols = append(cols,
		fmt.Sprintf("COALESCE(%s.%s::text, '')", ownerAlias, users.ID),
		fmt.Sprintf("COALESCE(%s.%s, '')", ownerAlias, users.Username),
		fmt.Sprintf("COALESCE(%s.%s, '')", ownerAlias, users.FullName),
		fmt.Sprintf("COALESCE(%s.%s, '')", ownerAlias, users.Avatar),
	)

	return fmt.Sprintf("SELECT %s FROM %s %s LEFT JOIN %s %s ON %s.%s = %s",
		strings.Join(cols, ", "),
		q.Table, q.Alias,
		users.Table, ownerAlias,
		ownerAlias, users.ID, q.Col(q.ownerColumn()),
	)
}

// ByID selects one row by primary key ($1).
func (q Query) ByID() string {
	return fmt.Sprintf("%s WHERE %s = $1", q.Select(), q.Col("id"))
}

// ByIDs selects the rows whose primary key is in the array $1.
func (q Query) ByIDs() string {
	return fmt.Sprintf("%s WHERE %s = ANY($1)", q.Select(), q.Col("id"))
}

// ByOwner selects every row owned by $1, sorted by order (e.g. "created_at DESC").
func (q Query) ByOwner(order string) string {
	return fmt.Sprintf("%s WHERE %s = $1 ORDER BY %s", q.Select(), q.Col(q.ownerColumn()), q.Col(order))
}

// All selects one page sorted by order, with LIMIT $1 OFFSET $2.
//
// filters are static predicates joined with AND; they must not use parameters.
func (q Query) All(order string, filters ...string) string {
	return fmt.Sprintf("%s%s ORDER BY %s LIMIT $1 OFFSET $2", q.Select(), where(filters), q.Col(order))
}

// Count counts the rows matched by filters, for pagination metadata.
func (q Query) Count(filters ...string) string {
	return fmt.Sprintf("SELECT count(*) FROM %s %s%s", q.Table, q.Alias, where(filters))
}

func where(filters []string) string {
	if len(filters) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(filters, " AND ")
}
