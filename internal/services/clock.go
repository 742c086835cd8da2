package services

import "time"

// nowFunc returns the current time. Overridable in tests.
var nowFunc = time.Now
