package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
)

// RequireVerifiedStudy checks that the study in the :id parameter was
// unlocked with its password in the current session
func RequireVerifiedStudy() gin.HandlerFunc {
	return func(c *gin.Context) {
		studyID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.BadRequest(c, "Invalid study ID")
			c.Abort()
			return
		}

		if !IsStudyVerified(sessions.Default(c), studyID) {
			apierrors.Forbidden(c, "Study password verification required")
			c.Abort()
			return
		}

		// Store study ID in context for easy access in handlers
		c.Set(constants.ContextKeyStudyID, studyID)
		c.Next()
	}
}

// MarkStudyVerified records the study as verified in the session
func MarkStudyVerified(session sessions.Session, studyID uuid.UUID) error {
	verified := verifiedStudies(session)
	for _, id := range verified {
		if id == studyID.String() {
			return nil
		}
	}

	session.Set(constants.SessionKeyVerifiedStudy, append(verified, studyID.String()))
	return session.Save()
}

// ForgetStudy removes the study from the session's verified set
func ForgetStudy(session sessions.Session, studyID uuid.UUID) error {
	verified := verifiedStudies(session)
	kept := make([]string, 0, len(verified))
	for _, id := range verified {
		if id != studyID.String() {
			kept = append(kept, id)
		}
	}

	session.Set(constants.SessionKeyVerifiedStudy, kept)
	return session.Save()
}

// IsStudyVerified reports whether the session has verified the study
func IsStudyVerified(session sessions.Session, studyID uuid.UUID) bool {
	for _, id := range verifiedStudies(session) {
		if id == studyID.String() {
			return true
		}
	}
	return false
}

// GetStudyID retrieves the verified study ID from context
func GetStudyID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(constants.ContextKeyStudyID)
	if !exists {
		return uuid.Nil, false
	}

	studyID, ok := value.(uuid.UUID)
	return studyID, ok
}

func verifiedStudies(session sessions.Session) []string {
	verified, _ := session.Get(constants.SessionKeyVerifiedStudy).([]string)
	return verified
}
