package dataset

import "errors"

// ErrDataUnavailable reports that the emission table could not be loaded: the file is
// missing or unreadable, a required column is absent, a value does not parse, or no rows remain.
var ErrDataUnavailable = errors.New("emission data unavailable")
