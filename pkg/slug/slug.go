// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns uploaded file names into ASCII object-key prefixes.
package slug

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLength caps the slug so object keys stay short.
const maxLength = 48

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
)

// From converts a file name such as "Día de Playa.MP4" into "dia-de-playa".
// The extension is dropped. The result may be empty.
func From(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))

	// Decompose accented letters and drop the combining marks.
	stripper := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(stripper, name)
	if err != nil {
		result = name
	}

	result = nonAlphanumeric.ReplaceAllString(strings.ToLower(result), "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > maxLength {
		result = strings.TrimRight(result[:maxLength], "-")
	}
	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
