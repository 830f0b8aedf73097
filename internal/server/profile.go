package server

import (
	"net/http"

	"revive/pkg/types"
)

type profileImageRequest struct {
	ProfileImage string `json:"profileImage"`
}

type profileImageResponse struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profileImage"`
}

func (s *Service) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.profiles.Me(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Service) handleGetPublicProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.PublicProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Service) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update types.ProfileUpdate
	if err := s.decodeJSON(r, &update); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.profiles.UpdateProfile(r.Context(), update, principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Service) handleUpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	var req profileImageRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	url, err := s.profiles.UpdateProfileImage(r.Context(), req.ProfileImage, principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profileImageResponse{Message: "Profile image updated", ProfileImage: url})
}

func (s *Service) handleGetVolunteerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.profiles.VolunteerStats(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleGetNGOStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.profiles.NGOStats(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}
