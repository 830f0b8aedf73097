package types

type VolunteerStats struct {
	TotalApplications int `json:"totalApplications"`
	Approved          int `json:"approved"`
	Pending           int `json:"pending"`
	Rejected          int `json:"rejected"`
}

type NGOStats struct {
	TotalCampaigns         int `json:"totalCampaigns"`
	ActiveCampaigns        int `json:"activeCampaigns"`
	CompletedCampaigns     int `json:"completedCampaigns"`
	TotalVolunteersEngaged int `json:"totalVolunteersEngaged"`
	PendingApplications    int `json:"pendingApplications"`
}

type VolunteerProfileStats struct {
	JoinedCampaigns int `json:"joinedCampaigns"`
}

type NGOProfileStats struct {
	TotalCampaigns    int `json:"totalCampaigns"`
	ActiveCampaigns   int `json:"activeCampaigns"`
	VolunteersEngaged int `json:"volunteersEngaged"`
}

// PublicProfile holds either VolunteerProfileStats or NGOProfileStats in
// Stats depending on the user's role.
type PublicProfile struct {
	User  *User `json:"user"`
	Stats any   `json:"stats"`
}
