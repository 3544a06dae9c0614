package markers

// Database exports database for testing.
type Database = database

// NewPostgresHookMarkerRepositoryWith exports newPostgresHookMarkerRepository for testing.
var NewPostgresHookMarkerRepositoryWith = newPostgresHookMarkerRepository //nolint:gochecknoglobals // test export

// NewNATSHookMarkerRepositoryWith exports newNATSHookMarkerRepository for testing.
var NewNATSHookMarkerRepositoryWith = newNATSHookMarkerRepository //nolint:gochecknoglobals // test export
