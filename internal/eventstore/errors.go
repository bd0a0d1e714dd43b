package eventstore

import (
	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.HistoryError("could not open build history database").Build()

	// ErrEventAppendFailed indicates appending an event failed.
	ErrEventAppendFailed = errors.HistoryError("failed to append build event").Build()

	// ErrEventQueryFailed indicates querying events failed.
	ErrEventQueryFailed = errors.HistoryError("failed to query build events").Build()
)
