package lyricmap

import "errors"

// ErrDataUnavailable is returned by Loader.Load when the dataset could not be
// fetched or parsed. Callers that want a demonstrable UI regardless should use
// LoadOrSample, which degrades to the embedded sample dataset.
var ErrDataUnavailable = errors.New("lyricmap: dataset unavailable")

// ErrInvalidRecord marks a row rejected during loading. It is never returned to
// callers; rejected rows are counted in Dataset.Skipped and logged in aggregate.
var ErrInvalidRecord = errors.New("lyricmap: invalid record")
