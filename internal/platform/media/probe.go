// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"io"

	mp4 "github.com/abema/go-mp4"
)

// ProbeDuration returns the presentation length in seconds of an ISO-BMFF
// (mp4, mov) stream. Other containers report 0.
func ProbeDuration(r io.ReadSeeker) float64 {
	info, err := mp4.Probe(r)
	if err != nil || info.Timescale == 0 {
		return 0
	}
	return float64(info.Duration) / float64(info.Timescale)
}
