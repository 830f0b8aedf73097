package campaign

import (
	"strings"
	"unicode/utf8"

	"revive/pkg/types"
)

const (
	minTitleLength       = 5
	minDescriptionLength = 20
)

func validateCampaign(c *types.Campaign) error {
	errs := map[string]string{}

	if utf8.RuneCountInString(strings.TrimSpace(c.Title)) < minTitleLength {
		errs["title"] = "Title must be at least 5 characters"
	}

	if utf8.RuneCountInString(strings.TrimSpace(c.Description)) < minDescriptionLength {
		errs["description"] = "Description must be at least 20 characters"
	}

	if c.DisasterType == "" {
		errs["disasterType"] = "Disaster type is required"
	} else if !c.DisasterType.Valid() {
		errs["disasterType"] = "Unknown disaster type"
	}

	if strings.TrimSpace(c.Location) == "" {
		errs["location"] = "Location is required"
	}

	if !c.Urgency.Valid() {
		errs["urgency"] = "Urgency must be critical, high, medium or low"
	}

	if !c.Status.Valid() {
		errs["status"] = "Status must be active, completed or cancelled"
	}

	if c.VolunteersNeeded < 1 {
		errs["volunteersNeeded"] = "At least 1 volunteer is required"
	} else if c.VolunteersNeeded < c.VolunteersJoined {
		errs["volunteersNeeded"] = "Cannot need fewer volunteers than have already joined"
	}

	if c.StartDate.IsZero() {
		errs["startDate"] = "Start date is required"
	}

	if c.EndDate.IsZero() {
		errs["endDate"] = "End date is required"
	}

	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && !c.EndDate.After(c.StartDate) {
		errs["endDate"] = "End date must be after start date"
	}

	if len(errs) > 0 {
		return types.NewValidationError(errs)
	}

	return nil
}
