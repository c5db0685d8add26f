package service

import "time"

// timeNow is swapped by tests that need a fixed clock.
var timeNow = func() time.Time { return time.Now().UTC() }
