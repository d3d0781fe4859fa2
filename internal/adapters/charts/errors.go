package charts

import "errors"

var (
	// ErrNoData is returned when a chart has nothing to plot.
	ErrNoData = errors.New("charts: no data to plot")

	// ErrUnknownFormat is returned for an output format other than svg or png.
	ErrUnknownFormat = errors.New("charts: unknown format")
)
