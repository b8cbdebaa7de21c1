package site

import (
	"net/http"

	"github.com/suaybkiraci/BlogSite/database"
)

func (s *Server) AdminPanelLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Secret string `json:"secret"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.Auth.VerifyPanelSecret(req.Secret); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         "Login successful",
		"secret_verified": true,
	})
}

func (s *Server) BootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "username is required"})
		return
	}

	user, err := s.Auth.BootstrapAdmin(username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User " + user.Username + " is now the first admin",
	})
}

func (s *Server) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "userID")
	if !ok {
		return
	}
	if err := s.Auth.MakeAdmin(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User is now an admin"})
}

type adminUserOut struct {
	userOut
	BlogCount int64 `json:"blog_count"`
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", "pending", "banned", "active":
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid status filter"})
		return
	}

	summaries, err := s.Auth.ListUsers(GetSignedInUserOrNil(r), status)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]adminUserOut, 0, len(summaries))
	for i := range summaries {
		out = append(out, adminUserOut{
			userOut:   newUserOut(&summaries[i].User),
			BlogCount: summaries[i].BlogCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ApproveUser(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "userID")
	if !ok {
		return
	}
	if err := s.Auth.ApproveUser(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User approved"})
}

func (s *Server) BanUser(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "userID")
	if !ok {
		return
	}
	if err := s.Auth.BanUser(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User banned"})
}

func (s *Server) UnbanUser(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "userID")
	if !ok {
		return
	}
	if err := s.Auth.UnbanUser(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User ban removed"})
}

// ListUserPosts returns every post by one author, for the admin panel.
func (s *Server) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	caller := GetSignedInUserOrNil(r)
	if err := s.Auth.RequireAdmin(caller); err != nil {
		writeError(w, err)
		return
	}
	id, ok := uintParam(w, r, "userID")
	if !ok {
		return
	}
	if _, err := s.Auth.ResolveCaller(id); err != nil {
		writeError(w, err)
		return
	}

	var posts []database.Post
	err := s.DB.Preload("Author").Where("author_id = ?", id).
		Order("created_at DESC").Find(&posts).Error
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]postListItem, 0, len(posts))
	for i := range posts {
		items = append(items, newPostListItem(&posts[i]))
	}
	writeJSON(w, http.StatusOK, items)
}
