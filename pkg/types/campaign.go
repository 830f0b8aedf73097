package types

import (
	"time"
)

type DisasterType string

const (
	DisasterTypeFlood      DisasterType = "Flood"
	DisasterTypeEarthquake DisasterType = "Earthquake"
	DisasterTypeFire       DisasterType = "Fire"
	DisasterTypeDrought    DisasterType = "Drought"
	DisasterTypeColdWave   DisasterType = "Cold Wave"
	DisasterTypeCyclone    DisasterType = "Cyclone"
	DisasterTypeLandslide  DisasterType = "Landslide"
	DisasterTypeTsunami    DisasterType = "Tsunami"
)

var DisasterTypes = []DisasterType{
	DisasterTypeFlood,
	DisasterTypeEarthquake,
	DisasterTypeFire,
	DisasterTypeDrought,
	DisasterTypeColdWave,
	DisasterTypeCyclone,
	DisasterTypeLandslide,
	DisasterTypeTsunami,
}

func (d DisasterType) Valid() bool {
	for _, t := range DisasterTypes {
		if d == t {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusCompleted, CampaignStatusCancelled:
		return true
	}
	return false
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Campaign struct {
	ID               string         `db:"id" json:"id"`
	NGOID            string         `db:"ngo_id" json:"ngo"`
	Title            string         `db:"title" json:"title"`
	Description      string         `db:"description" json:"description"`
	DisasterType     DisasterType   `db:"disaster_type" json:"disasterType"`
	Location         string         `db:"location" json:"location"`
	Lat              *float64       `db:"lat" json:"-"`
	Lng              *float64       `db:"lng" json:"-"`
	Urgency          Urgency        `db:"urgency" json:"urgency"`
	VolunteersNeeded int            `db:"volunteers_needed" json:"volunteersNeeded"`
	VolunteersJoined int            `db:"volunteers_joined" json:"volunteersJoined"`
	StartDate        time.Time      `db:"start_date" json:"startDate"`
	EndDate          time.Time      `db:"end_date" json:"endDate"`
	Categories       []string       `db:"categories" json:"categories"`
	Image            string         `db:"image" json:"image"`
	Status           CampaignStatus `db:"status" json:"status"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedAt"`

	Coordinates *Coordinates `db:"-" json:"coordinates,omitempty"`
}

// SyncCoordinates fills Coordinates from the scanned lat/lng columns.
func (c *Campaign) SyncCoordinates() {
	if c.Lat == nil || c.Lng == nil {
		c.Coordinates = nil
		return
	}
	c.Coordinates = &Coordinates{Lat: *c.Lat, Lng: *c.Lng}
}

func (c *Campaign) SetCoordinates(coords *Coordinates) {
	c.Coordinates = coords
	if coords == nil {
		c.Lat, c.Lng = nil, nil
		return
	}
	lat, lng := coords.Lat, coords.Lng
	c.Lat, c.Lng = &lat, &lng
}

func (c *Campaign) IsFull() bool {
	return c.VolunteersJoined >= c.VolunteersNeeded
}

func (c *Campaign) OwnedBy(p Principal) bool {
	return p.Role == RoleNGO && c.NGOID == p.ID
}

// CampaignInput is the body of a create request.
type CampaignInput struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	DisasterType     DisasterType `json:"disasterType"`
	Location         string       `json:"location"`
	Coordinates      *Coordinates `json:"coordinates"`
	Urgency          Urgency      `json:"urgency"`
	VolunteersNeeded int          `json:"volunteersNeeded"`
	StartDate        DateTime     `json:"startDate"`
	EndDate          DateTime     `json:"endDate"`
	Categories       CategoryList `json:"categories"`
	Image            string       `json:"image"`
}

// CampaignPatch is the body of an update request. Nil fields are left as is.
type CampaignPatch struct {
	Title            *string         `json:"title"`
	Description      *string         `json:"description"`
	DisasterType     *DisasterType   `json:"disasterType"`
	Location         *string         `json:"location"`
	Coordinates      *Coordinates    `json:"coordinates"`
	Urgency          *Urgency        `json:"urgency"`
	VolunteersNeeded *int            `json:"volunteersNeeded"`
	StartDate        *DateTime       `json:"startDate"`
	EndDate          *DateTime       `json:"endDate"`
	Categories       *CategoryList   `json:"categories"`
	Image            *string         `json:"image"`
	Status           *CampaignStatus `json:"status"`
}

type CampaignFilters struct {
	Search       string         `form:"search"`
	Urgency      Urgency        `form:"urgency"`
	DisasterType DisasterType   `form:"disasterType"`
	Status       CampaignStatus `form:"status"`
}

// CampaignView is a campaign with its owning NGO populated.
type CampaignView struct {
	*Campaign
	NGO *UserSummary `json:"ngoProfile,omitempty"`
}

// CampaignDetail additionally carries every application on the campaign.
type CampaignDetail struct {
	CampaignView
	Volunteers []*ApplicationView `json:"volunteers"`
}
