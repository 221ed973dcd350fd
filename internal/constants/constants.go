package constants

// Session
const (
	SessionCookieName = "workforce_session"
	ContextKeyUserID  = "user_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Geofencing
const (
	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6371000.0

	// DefaultLocationRadiusMeters is assigned to locations auto-created
	// from an unmatched check-in point.
	DefaultLocationRadiusMeters = 100.0

	MinLocationRadiusMeters = 10.0
	MaxLocationRadiusMeters = 1000.0

	// MaxTrustedAccuracyMeters is the accuracy gate: a GPS fix with a
	// larger uncertainty is recorded but never classified against geofences.
	MaxTrustedAccuracyMeters = 1000.0

	// DuplicateLocationThresholdMeters is the admin-create pre-check: a new
	// location this close to an existing one is rejected.
	DuplicateLocationThresholdMeters = 10.0
)

// AI task generation
const MaxAIGeneratedTasks = 20
