package eventstore

import (
	"git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite journal could not be opened.
	ErrDatabaseOpenFailed = errors.EventStoreError("could not open run journal").Build()

	// ErrInitializeSchemaFailed indicates the journal schema could not be created.
	ErrInitializeSchemaFailed = errors.EventStoreError("failed to initialize run journal schema").Build()

	// ErrEventAppendFailed indicates appending an event failed.
	ErrEventAppendFailed = errors.EventStoreError("failed to append event to run journal").Build()

	// ErrEventQueryFailed indicates querying events failed.
	ErrEventQueryFailed = errors.EventStoreError("failed to query run journal").Build()
)
