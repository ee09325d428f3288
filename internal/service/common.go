package service

import "time"

// timeFormat is the timestamp layout used across API responses.
const timeFormat = time.RFC3339

// dateFormat is the calendar-day layout used for issue/due/entry dates.
const dateFormat = "2006-01-02"

// allRowsLimit is the page size used when a rollup needs every row.
const allRowsLimit = 10000
