// Package utils provides shared utility functions and constants
package utils

import "time"

// ViewerCookieName is the cookie holding the gallery viewer id
const ViewerCookieName = "portfolio_viewer"

// ViewerCookieMaxAge bounds how long a browser keeps its viewer id
const ViewerCookieMaxAge = 24 * time.Hour

// RequestIDHeader carries the per-request id set by the server
const RequestIDHeader = "X-Request-Id"
