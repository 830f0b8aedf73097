// Package profile serves user profiles and the per-principal aggregate stats.
package profile

import (
	"context"
	"strings"

	"revive/pkg/types"

	"github.com/sirupsen/logrus"
)

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	Update(ctx context.Context, userID string, user *types.User) error
}

type StatsStore interface {
	ApplicationCountsByVolunteer(ctx context.Context, volunteerID string) (map[types.ApplicationStatus]int, error)
	NGOStats(ctx context.Context, ngoID string) (*types.NGOStats, error)
}

type Service struct {
	logger logrus.FieldLogger
	users  UserStore
	stats  StatsStore
}

func NewService(logger logrus.FieldLogger, users UserStore, stats StatsStore) *Service {
	return &Service{logger: logger, users: users, stats: stats}
}

func (s *Service) Me(ctx context.Context, principal types.Principal) (*types.User, error) {
	return s.users.User(ctx, principal.ID)
}

func (s *Service) PublicProfile(ctx context.Context, userID string) (*types.PublicProfile, error) {
	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &types.PublicProfile{User: user, Stats: struct{}{}}

	switch user.UserType {
	case types.RoleVolunteer:
		counts, err := s.stats.ApplicationCountsByVolunteer(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		profile.Stats = types.VolunteerProfileStats{
			JoinedCampaigns: counts[types.ApplicationStatusApproved],
		}
	case types.RoleNGO:
		stats, err := s.stats.NGOStats(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		profile.Stats = types.NGOProfileStats{
			TotalCampaigns:    stats.TotalCampaigns,
			ActiveCampaigns:   stats.ActiveCampaigns,
			VolunteersEngaged: stats.TotalVolunteersEngaged,
		}
	}

	return profile, nil
}

// UpdateProfile applies the set fields of update. Organization fields are
// only writable by NGOs and are ignored for everyone else.
func (s *Service) UpdateProfile(ctx context.Context, update types.ProfileUpdate, principal types.Principal) (*types.User, error) {
	user, err := s.users.User(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, types.NewValidationError(map[string]string{"fullName": "Full name cannot be empty"})
		}
		user.FullName = name
	}

	assign(&user.Phone, update.Phone)
	assign(&user.Location, update.Location)
	assign(&user.ZipCode, update.ZipCode)
	assign(&user.Bio, update.Bio)
	assign(&user.ProfileImage, update.ProfileImage)

	switch user.UserType {
	case types.RoleNGO:
		assign(&user.OrganizationName, update.OrganizationName)
		assign(&user.MissionStatement, update.MissionStatement)
	}

	if err := s.users.Update(ctx, user.ID, user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("profile updated")

	return user, nil
}

func (s *Service) UpdateProfileImage(ctx context.Context, imageURL string, principal types.Principal) (string, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return "", types.NewValidationError(map[string]string{"profileImage": "Profile image URL is required"})
	}

	user, err := s.users.User(ctx, principal.ID)
	if err != nil {
		return "", err
	}

	user.ProfileImage = &imageURL
	if err := s.users.Update(ctx, user.ID, user); err != nil {
		return "", err
	}

	return imageURL, nil
}

func (s *Service) VolunteerStats(ctx context.Context, principal types.Principal) (*types.VolunteerStats, error) {
	switch principal.Role {
	case types.RoleVolunteer:
	default:
		return nil, types.ErrAccessDenied
	}

	counts, err := s.stats.ApplicationCountsByVolunteer(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	stats := &types.VolunteerStats{
		Approved: counts[types.ApplicationStatusApproved],
		Pending:  counts[types.ApplicationStatusPending],
	}
	for _, n := range counts {
		stats.TotalApplications += n
	}
	stats.Rejected = stats.TotalApplications - stats.Approved - stats.Pending

	return stats, nil
}

func (s *Service) NGOStats(ctx context.Context, principal types.Principal) (*types.NGOStats, error) {
	switch principal.Role {
	case types.RoleNGO:
	default:
		return nil, types.ErrAccessDenied
	}

	return s.stats.NGOStats(ctx, principal.ID)
}

// assign copies a non-nil update into dst; a blank string clears the field.
func assign(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}
