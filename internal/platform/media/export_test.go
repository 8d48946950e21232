// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import "time"

// SetClock replaces the version clock used in object keys.
func (t *Transferer) SetClock(now func() time.Time) {
	t.now = now
}
