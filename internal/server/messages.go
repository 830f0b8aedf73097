package server

import (
	"net/http"

	"revive/pkg/types"
)

func (s *Service) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var input types.MessageInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	message, err := s.messages.Send(r.Context(), input, principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, message)
}

func (s *Service) handleGetConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.messages.Conversations(r.Context(), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, conversations)
}

func (s *Service) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	messages, err := s.messages.Conversation(r.Context(), r.PathValue("userId"), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messages)
}

func (s *Service) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	err := s.messages.MarkRead(r.Context(), r.PathValue("id"), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "Message marked as read")
}

func (s *Service) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	err := s.messages.Delete(r.Context(), r.PathValue("id"), principal(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, "Message deleted")
}
