package constants

// Session and context keys
const (
	SessionCookieName       = "study_session"
	SessionKeyVerifiedStudy = "verified_studies"
	ContextKeyStudyID       = "study_id"
)

// Pagination defaults for study listings
const (
	MinPageSize     = 1
	DefaultPageSize = 6
	MaxPageSize     = 60
)

// Study constraints
const (
	MaxRecentStudies   = 3
	MaxKeywordLength   = 50
	MinPasswordLength  = 4
	MaxSuggestedHabits = 10
)

// DayFormat is the layout of the per-day key stored with each completion.
const DayFormat = "2006-01-02"
