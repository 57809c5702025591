package page

import "errors"

// Sentinel errors for detail page fetches.
var (
	ErrUnavailable = errors.New("page: detail page unavailable")
	ErrNoAuthor    = errors.New("page: no author information on page")
)
