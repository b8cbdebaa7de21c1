package site

import (
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/suaybkiraci/BlogSite/database"
)

type contactMessageOut struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func newContactMessageOut(m *database.ContactMessage) contactMessageOut {
	return contactMessageOut{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// CreateContactMessage accepts a message from anyone, signed in or not.
func (s *Server) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "name, email and message are required"})
		return
	}

	message := database.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := s.DB.Create(&message).Error; err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newContactMessageOut(&message))
}

func (s *Server) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	if err := s.Auth.RequireAdmin(GetSignedInUserOrNil(r)); err != nil {
		writeError(w, err)
		return
	}

	var messages []database.ContactMessage
	if err := s.DB.Order("created_at DESC").Find(&messages).Error; err != nil {
		writeError(w, err)
		return
	}

	out := make([]contactMessageOut, 0, len(messages))
	for i := range messages {
		out = append(out, newContactMessageOut(&messages[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) MarkContactMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := s.Auth.RequireAdmin(GetSignedInUserOrNil(r)); err != nil {
		writeError(w, err)
		return
	}
	id, ok := uintParam(w, r, "messageID")
	if !ok {
		return
	}

	var message database.ContactMessage
	err := s.DB.First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Message not found"})
			return
		}
		writeError(w, err)
		return
	}

	message.IsRead = true
	if err := s.DB.Save(&message).Error; err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Marked as read"})
}
