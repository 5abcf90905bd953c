// internal/eligibility/eligibility.go
package eligibility

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/lagkaka/internal/fault"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
)

const (
	CodeWrongRosterSize           = "WRONG_ROSTER_SIZE"
	CodeLeaderCountInvalid        = "LEADER_COUNT_INVALID"
	CodeLeaderNotIEEEMember       = "LEADER_NOT_IEEE_MEMBER"
	CodeSchoolStudentCountInvalid = "SCHOOL_STUDENT_COUNT_INVALID"
	CodeSchoolStudentMissing      = "SCHOOL_STUDENT_MISSING_FIELDS"
	CodeNoFemaleMember            = "NO_FEMALE_MEMBER"
)

// Check runs the roster composition rules in a fixed order and returns
// the first violated rule, or nil when the roster is eligible. Pure and
// safe to call repeatedly; the registration coordinator calls it again
// right before persisting regardless of what the handler already did.
//
// Policy decision: exactly one school student is required, not "at
// least one". See DESIGN.md.
func Check(roster []models.MemberInput) *fault.Error {
	if len(roster) != models.RosterSize {
		return fault.Validation(CodeWrongRosterSize,
			fmt.Sprintf("roster must have exactly %d members, got %d", models.RosterSize, len(roster)))
	}

	var leader *models.MemberInput
	leaders := 0
	for i := range roster {
		if roster[i].Role == models.RoleLeader {
			leader = &roster[i]
			leaders++
		}
	}
	if leaders != 1 {
		return fault.Validation(CodeLeaderCountInvalid,
			fmt.Sprintf("expected exactly 1 leader, got %d", leaders))
	}

	if !leader.IEEEMember || strings.TrimSpace(leader.IEEENumber) == "" {
		return fault.Validation(CodeLeaderNotIEEEMember,
			"leader must be an IEEE member with a membership number")
	}

	students := 0
	for i := range roster {
		if roster[i].Role == models.RoleSchoolStudent {
			students++
		}
	}
	if students != 1 {
		return fault.Validation(CodeSchoolStudentCountInvalid,
			fmt.Sprintf("expected exactly 1 school student, got %d", students))
	}

	for i := range roster {
		if roster[i].Role != models.RoleSchoolStudent {
			continue
		}
		if strings.TrimSpace(roster[i].SchoolStandard) == "" || roster[i].ArtifactURL == "" {
			return fault.Validation(CodeSchoolStudentMissing,
				fmt.Sprintf("school student in slot %d needs a standard and an identity document", i))
		}
	}

	for i := range roster {
		if strings.EqualFold(roster[i].Gender, "female") {
			return nil
		}
	}
	return fault.Validation(CodeNoFemaleMember, "roster must include at least one female member")
}
