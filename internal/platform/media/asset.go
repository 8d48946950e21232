// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media moves buffered uploads to the remote media store and removes
them again.

Remote URLs follow one layout:

	{publicBase}/{kind}/upload/v{unix}/{publicID}{ext}

Records only keep the URL. Everything needed to delete an asset is parsed back
out of it with [ParseAssetURL].
*/
package media

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Kind is the remote resource class of an asset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// videoExts are the extensions treated as video when deleting by URL.
var videoExts = map[string]struct{}{
	".mp4": {},
	".avi": {},
	".mov": {},
	".mkv": {},
}

// KindForExt infers the kind from an extension such as ".mp4".
func KindForExt(ext string) Kind {
	if _, ok := videoExts[strings.ToLower(ext)]; ok {
		return KindVideo
	}
	return KindImage
}

// ErrInvalidAssetURL is returned when a URL does not follow the media layout.
var ErrInvalidAssetURL = errors.New("media: invalid asset url")

// AssetRef identifies a remote asset parsed from its public URL.
type AssetRef struct {
	URL      string
	Folder   string
	Kind     Kind
	Version  int64
	PublicID string
	Ext      string
}

// ObjectKey rebuilds the storage key the asset was uploaded under.
func (ref AssetRef) ObjectKey() string {
	folder := ref.Folder
	if folder == "" {
		folder = string(ref.Kind)
	}
	if ref.Version > 0 {
		return fmt.Sprintf("%s/upload/v%d/%s%s", folder, ref.Version, ref.PublicID, ref.Ext)
	}
	return fmt.Sprintf("%s/upload/%s%s", folder, ref.PublicID, ref.Ext)
}

// BuildKey returns the storage key for a new asset.
func BuildKey(kind Kind, version int64, publicID, ext string) string {
	return AssetRef{Kind: kind, Version: version, PublicID: publicID, Ext: strings.ToLower(ext)}.ObjectKey()
}

/*
ParseAssetURL extracts the asset identity from a remote URL.

Steps:
 1. Split the path at "/upload/".
 2. Drop a leading "v<digits>" version segment.
 3. Strip the extension; what remains is the public ID.
 4. Infer the kind from the extension.
*/
func ParseAssetURL(raw string) (AssetRef, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Path == "" {
		return AssetRef{}, fmt.Errorf("%w: %q", ErrInvalidAssetURL, raw)
	}

	head, tail, found := strings.Cut(parsed.Path, "/upload/")
	if !found || tail == "" {
		return AssetRef{}, fmt.Errorf("%w: %q", ErrInvalidAssetURL, raw)
	}

	ref := AssetRef{URL: raw, Folder: path.Base(head)}
	if ref.Folder == "." || ref.Folder == "/" {
		ref.Folder = ""
	}

	segments := strings.Split(tail, "/")
	if len(segments) > 1 {
		if version, ok := parseVersion(segments[0]); ok {
			ref.Version = version
			segments = segments[1:]
		}
	}

	rest := strings.Join(segments, "/")
	ext := path.Ext(rest)
	ref.PublicID = strings.TrimSuffix(rest, ext)
	ref.Ext = strings.ToLower(ext)
	ref.Kind = KindForExt(ref.Ext)

	if ref.PublicID == "" {
		return AssetRef{}, fmt.Errorf("%w: %q", ErrInvalidAssetURL, raw)
	}
	return ref, nil
}

func parseVersion(segment string) (int64, bool) {
	digits, ok := strings.CutPrefix(segment, "v")
	if !ok || digits == "" {
		return 0, false
	}
	version, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return version, true
}
