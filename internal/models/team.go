package models

import (
	"github.com/go-playground/validator/v10"
)

type MemberRole string

const (
	RoleLeader        MemberRole = "leader"
	RoleMember        MemberRole = "member"
	RoleSchoolStudent MemberRole = "school_student"
)

// RosterSize is fixed: a team always has exactly this many members
const RosterSize = 6

type Team struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name" validate:"required,max=100"`
	Theme     string `db:"theme" json:"theme" validate:"required,max=200"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

type RosterMember struct {
	ID             int64      `db:"id" json:"id"`
	TeamID         int64      `db:"team_id" json:"team_id"`
	Slot           int        `db:"slot" json:"slot"`
	FullName       string     `db:"full_name" json:"full_name"`
	Email          string     `db:"email" json:"email"`
	Gender         string     `db:"gender" json:"gender"`
	Role           MemberRole `db:"role" json:"role"`
	IEEEMember     bool       `db:"ieee_member" json:"ieee_member"`
	IEEENumber     string     `db:"ieee_number" json:"ieee_number"`
	SchoolStandard string     `db:"school_standard" json:"school_standard"`
	ArtifactURL    string     `db:"artifact_url" json:"artifact_url"`
}

type Mentor struct {
	ID           int64  `db:"id" json:"id"`
	TeamID       int64  `db:"team_id" json:"team_id"`
	FullName     string `db:"full_name" json:"full_name"`
	Email        string `db:"email" json:"email"`
	Organization string `db:"organization" json:"organization"`
}

type CommunityRepresentative struct {
	ID       int64  `db:"id" json:"id"`
	TeamID   int64  `db:"team_id" json:"team_id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
	Phone    string `db:"phone" json:"phone"`
}

// LeaderIdentity is the login account provisioned for the roster member
// tagged leader. It is only ever created inside the registration
// transaction, never on its own.
type LeaderIdentity struct {
	ID           int64  `db:"id" json:"id"`
	TeamID       int64  `db:"team_id" json:"team_id"`
	MemberID     int64  `db:"member_id" json:"member_id"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}

// TeamAggregate is the unit the registration transaction persists:
// either all of it exists afterwards, or none of it.
type TeamAggregate struct {
	Team           Team
	Roster         []RosterMember
	Mentor         Mentor
	Representative CommunityRepresentative
	Leader         LeaderIdentity
}

// MemberInput is one roster slot as submitted by the client.
type MemberInput struct {
	FullName       string     `json:"full_name" validate:"required,max=120"`
	Email          string     `json:"email" validate:"required,email"`
	Gender         string     `json:"gender" validate:"required"`
	Role           MemberRole `json:"role" validate:"required,oneof=leader member school_student"`
	IEEEMember     bool       `json:"ieee_member"`
	IEEENumber     string     `json:"ieee_number"`
	SchoolStandard string     `json:"school_standard"`
	ArtifactURL    string     `json:"artifact_url"`
}

type MentorInput struct {
	FullName     string `json:"full_name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Organization string `json:"organization"`
}

type RepresentativeInput struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
}

type RegistrationRequest struct {
	Name           string              `json:"name" validate:"required,max=100"`
	Theme          string              `json:"theme" validate:"required,max=200"`
	Roster         []MemberInput       `json:"roster" validate:"required,len=6,dive"`
	Mentor         MentorInput         `json:"mentor" validate:"required"`
	Representative RepresentativeInput `json:"representative" validate:"required"`
}

func (r *RegistrationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
