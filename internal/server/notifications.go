package server

import (
	"net/http"
)

func (s *Service) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	inbox, err := s.notifications.Inbox(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, inbox)
}

func (s *Service) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := s.notifications.MarkRead(r.Context(), r.PathValue("id"), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "Notification marked as read")
}

func (s *Service) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.MarkAllRead(r.Context(), principal(r)); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "All notifications marked as read")
}

func (s *Service) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	err := s.notifications.Delete(r.Context(), r.PathValue("id"), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "Notification deleted")
}

func (s *Service) handleClearReadNotifications(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.ClearRead(r.Context(), principal(r)); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "Read notifications cleared")
}
