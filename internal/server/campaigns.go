package server

import (
	"fmt"
	"net/http"

	"revive/pkg/types"
)

func (s *Service) handleGetCampaigns(w http.ResponseWriter, r *http.Request) {
	var filters types.CampaignFilters
	if err := decoder.Decode(&filters, r.URL.Query()); err != nil {
		s.logger.WithError(err).Debug("failed to decode campaign filters")
		s.writeError(w, r, types.NewError(types.ErrValidation, "Invalid campaign filters"))
		return
	}

	campaigns, err := s.campaigns.GetCampaigns(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *Service) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.campaigns.GetCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, campaign)
}

func (s *Service) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var input types.CampaignInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	campaign, err := s.campaigns.CreateCampaign(r.Context(), input, principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, campaign)
}

func (s *Service) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var patch types.CampaignPatch
	if err := s.decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	campaign, err := s.campaigns.UpdateCampaign(r.Context(), r.PathValue("id"), patch, principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, campaign)
}

func (s *Service) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	err := s.campaigns.DeleteCampaign(r.Context(), r.PathValue("id"), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "Campaign removed")
}

func (s *Service) handleApplyToCampaign(w http.ResponseWriter, r *http.Request) {
	_, err := s.campaigns.ApplyToCampaign(r.Context(), r.PathValue("id"), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "Application submitted successfully")
}

func (s *Service) handleManageApplication(w http.ResponseWriter, r *http.Request) {
	var input types.ManageApplicationInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	application, err := s.campaigns.ManageApplication(ctx, r.PathValue("id"), r.PathValue("volunteerId"), input.Status, principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, fmt.Sprintf("Application %s", application.Status))
}

func (s *Service) handleGetMyCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaigns.GetMyCampaigns(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *Service) handleGetMyApplications(w http.ResponseWriter, r *http.Request) {
	applications, err := s.campaigns.GetMyApplications(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, applications)
}
