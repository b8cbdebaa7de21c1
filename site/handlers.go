package site

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"

	"github.com/suaybkiraci/BlogSite/blog"
	"github.com/suaybkiraci/BlogSite/constants"
)

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "username, email and password are required"})
		return
	}

	user, err := s.Auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserOut(user))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := s.Auth.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newUserOut(GetSignedInUserOrNil(r)))
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.Auth.ChangePassword(GetSignedInUserOrNil(r), req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (s *Server) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewEmail        string `json:"new_email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user := GetSignedInUserOrNil(r)
	if err := s.Auth.ChangeEmail(user, req.CurrentPassword, req.NewEmail); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserOut(user))
}

type postRequest struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Excerpt     string         `json:"excerpt"`
	CoverImage  string         `json:"cover_image"`
	Tags        datatypes.JSON `json:"tags"`
	IsPublished bool           `json:"is_published"`
}

func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "title and content are required"})
		return
	}

	post, err := s.Blog.Create(GetSignedInUserOrNil(r), blog.CreateInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CoverImage:  req.CoverImage,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostOut(post, false))
}

func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > constants.MAX_POSTS_PER_PAGE {
		limit = constants.MAX_POSTS_PER_PAGE
	}

	posts, err := s.Blog.List(GetSignedInUserOrNil(r), skip, limit)
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

func (s *Server) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := s.Blog.GetBySlug(GetSignedInUserOrNil(r), slug, viewerKey(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostOut(post, true))
}

func (s *Server) GetPostByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "postID")
	if !ok {
		return
	}
	post, err := s.Blog.GetByID(GetSignedInUserOrNil(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostOut(post, false))
}

func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "postID")
	if !ok {
		return
	}

	var req struct {
		Title       *string        `json:"title"`
		Content     *string        `json:"content"`
		Excerpt     *string        `json:"excerpt"`
		CoverImage  *string        `json:"cover_image"`
		Tags        datatypes.JSON `json:"tags"`
		IsPublished *bool          `json:"is_published"`
		IsApproved  *bool          `json:"is_approved"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := s.Blog.Update(GetSignedInUserOrNil(r), id, blog.UpdateInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CoverImage:  req.CoverImage,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
		IsApproved:  req.IsApproved,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostOut(post, false))
}

func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "postID")
	if !ok {
		return
	}
	if err := s.Blog.Delete(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog post deleted"})
}

func (s *Server) ApprovePost(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "postID")
	if !ok {
		return
	}
	if err := s.Blog.Approve(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog post approved"})
}

func (s *Server) UnapprovePost(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "postID")
	if !ok {
		return
	}
	if err := s.Blog.Unapprove(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog post approval removed"})
}

func (s *Server) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "postID")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "content is required"})
		return
	}

	comment, err := s.Blog.AddComment(GetSignedInUserOrNil(r), id, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentOut(comment))
}

func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "postID")
	if !ok {
		return
	}
	comments, err := s.Blog.ListComments(GetSignedInUserOrNil(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]commentOut, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentOut(&comments[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "commentID")
	if !ok {
		return
	}
	if err := s.Blog.DeleteComment(GetSignedInUserOrNil(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

func uintParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid " + name})
		return 0, false
	}
	return uint(value), true
}
