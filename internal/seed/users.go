package seed

import (
	"context"
	"errors"
	"fmt"

	"revive/internal/utils"
	"revive/pkg/types"
)

type fakeUserSeed struct {
	ID           string
	Email        string
	FullName     string
	UserType     types.Role
	Location     string
	Organization string
	Mission      string
}

var fakeUsers = []fakeUserSeed{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "harbor.relief+seed1@example.com", FullName: "Harbor Relief Network", UserType: types.RoleNGO, Location: "Chennai", Organization: "Harbor Relief Network", Mission: "Coastal disaster response and shelter logistics."},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "hill.rescue+seed2@example.com", FullName: "Hill Rescue Collective", UserType: types.RoleNGO, Location: "Shimla", Organization: "Hill Rescue Collective", Mission: "Landslide and cold wave rescue in mountain districts."},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "ava.williams+seed3@example.com", FullName: "Ava Williams", UserType: types.RoleVolunteer, Location: "Pune"},
	{ID: "44444444-4444-4444-4444-444444444444", Email: "liam.johnson+seed4@example.com", FullName: "Liam Johnson", UserType: types.RoleVolunteer, Location: "Mumbai"},
	{ID: "55555555-5555-5555-5555-555555555555", Email: "noah.brown+seed5@example.com", FullName: "Noah Brown", UserType: types.RoleVolunteer, Location: "Delhi"},
	{ID: "66666666-6666-6666-6666-666666666666", Email: "mia.davis+seed6@example.com", FullName: "Mia Davis", UserType: types.RoleVolunteer, Location: "Kochi"},
	{ID: "77777777-7777-7777-7777-777777777777", Email: "elijah.garcia+seed7@example.com", FullName: "Elijah Garcia", UserType: types.RoleVolunteer, Location: "Guwahati"},
	{ID: "88888888-8888-8888-8888-888888888888", Email: "sophia.taylor+seed8@example.com", FullName: "Sophia Taylor", UserType: types.RoleVolunteer, Location: "Bhubaneswar"},
}

type UserSeeder interface {
	User(ctx context.Context, userID string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
	Update(ctx context.Context, userID string, user *types.User) error
}

func seedPrincipals(role types.Role) []types.Principal {
	out := make([]types.Principal, 0, len(fakeUsers))
	for _, u := range fakeUsers {
		if u.UserType == role {
			out = append(out, types.Principal{ID: u.ID, Role: u.UserType, DisplayName: u.FullName})
		}
	}
	return out
}

func (f fakeUserSeed) apply(user *types.User) {
	user.Email = f.Email
	user.FullName = f.FullName
	user.UserType = f.UserType
	user.Location = utils.TrimmedStringPtr(f.Location)
	user.OrganizationName = utils.TrimmedStringPtr(f.Organization)
	user.MissionStatement = utils.TrimmedStringPtr(f.Mission)
}

func SeedFakeUsers(ctx context.Context, userRepo UserSeeder) error {
	seeded := 0
	for _, fakeUser := range fakeUsers {
		existing, err := userRepo.User(ctx, fakeUser.ID)
		if err != nil {
			if !errors.Is(err, types.ErrUserNotFound) {
				return fmt.Errorf("failed to fetch fake user %s: %w", fakeUser.ID, err)
			}

			newUser := &types.User{ID: fakeUser.ID}
			fakeUser.apply(newUser)

			if err := userRepo.Create(ctx, newUser); err != nil {
				return fmt.Errorf("failed to create fake user %s: %w", fakeUser.ID, err)
			}
			seeded++
			continue
		}

		fakeUser.apply(existing)

		if err := userRepo.Update(ctx, fakeUser.ID, existing); err != nil {
			return fmt.Errorf("failed to update fake user %s: %w", fakeUser.ID, err)
		}
		seeded++
	}

	fmt.Printf("Fake users seeded: %d upserted\n", seeded)
	return nil
}
