package commands

// RevisionHash exports revisionHash for testing.
var RevisionHash = revisionHash //nolint:gochecknoglobals // test export

// CompletionStatus exports completionStatus for testing.
var CompletionStatus = completionStatus //nolint:gochecknoglobals // test export
