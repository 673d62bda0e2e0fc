package project

import "time"

// nowFunc is indirected so tests can pin the clock when exercising
// blank-metadata generation.
var nowFunc = time.Now
