package types

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of principal kinds. Operations switch on it rather
// than comparing raw strings.
type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleNGO       Role = "ngo"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleVolunteer:
		return RoleVolunteer, nil
	case RoleNGO:
		return RoleNGO, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated actor behind a request.
type Principal struct {
	ID          string
	Role        Role
	DisplayName string
}

type User struct {
	ID               string    `db:"id" json:"id"`
	FullName         string    `db:"full_name" json:"fullName"`
	Email            string    `db:"email" json:"email"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	UserType         Role      `db:"user_type" json:"userType"`
	Location         *string   `db:"location" json:"location,omitempty"`
	ZipCode          *string   `db:"zip_code" json:"zipCode,omitempty"`
	Bio              *string   `db:"bio" json:"bio,omitempty"`
	ProfileImage     *string   `db:"profile_image" json:"profileImage,omitempty"`
	OrganizationName *string   `db:"organization_name" json:"organizationName,omitempty"`
	MissionStatement *string   `db:"mission_statement" json:"missionStatement,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.UserType, DisplayName: u.FullName}
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:               u.ID,
		FullName:         u.FullName,
		Email:            u.Email,
		Phone:            u.Phone,
		Location:         u.Location,
		ProfileImage:     u.ProfileImage,
		OrganizationName: u.OrganizationName,
	}
}

// UserSummary is the subset of a user embedded in other resources.
type UserSummary struct {
	ID               string  `json:"id"`
	FullName         string  `json:"fullName"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone,omitempty"`
	Location         *string `json:"location,omitempty"`
	ProfileImage     *string `json:"profileImage,omitempty"`
	OrganizationName *string `json:"organizationName,omitempty"`
}

// ProfileUpdate carries the user editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	FullName         *string `json:"fullName"`
	Phone            *string `json:"phone"`
	Location         *string `json:"location"`
	ZipCode          *string `json:"zipCode"`
	Bio              *string `json:"bio"`
	ProfileImage     *string `json:"profileImage"`
	OrganizationName *string `json:"organizationName"`
	MissionStatement *string `json:"missionStatement"`
}
