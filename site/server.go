package site

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/suaybkiraci/BlogSite/auth"
	"github.com/suaybkiraci/BlogSite/blog"
	"github.com/suaybkiraci/BlogSite/config"
)

// Server holds the service dependencies behind the HTTP surface.
type Server struct {
	DB        *gorm.DB
	Auth      *auth.Service
	Blog      *blog.Service
	UploadDir string
}

func NewServer(db *gorm.DB, authSvc *auth.Service, blogSvc *blog.Service, uploadDir string) *Server {
	return &Server{DB: db, Auth: authSvc, Blog: blogSvc, UploadDir: uploadDir}
}

// Routes registers every handler on r. Global middleware (CORS, logging,
// rate limiting) is the caller's concern.
func (s *Server) Routes(r chi.Router) {
	r.Use(s.TryPutUserInContextMiddleware)

	r.Get("/", s.HomePage)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.With(s.AuthProtectedMiddleware).Get("/me", s.Me)
		r.With(s.AuthProtectedMiddleware).Put("/change-password", s.ChangePassword)
		r.With(s.AuthProtectedMiddleware).Put("/change-email", s.ChangeEmail)
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", s.ListPosts)
		r.With(s.AuthProtectedMiddleware).Post("/", s.CreatePost)
		r.With(s.AuthProtectedMiddleware).Get("/id/{postID}", s.GetPostByID)
		r.Get("/{slug}", s.GetPostBySlug)
		r.With(s.AuthProtectedMiddleware).Put("/{postID}", s.UpdatePost)
		r.With(s.AuthProtectedMiddleware).Delete("/{postID}", s.DeletePost)
		r.With(s.AuthProtectedMiddleware).Post("/{postID}/approve", s.ApprovePost)
		r.With(s.AuthProtectedMiddleware).Post("/{postID}/unapprove", s.UnapprovePost)
		r.Get("/{postID}/comments", s.ListComments)
		r.With(s.AuthProtectedMiddleware).Post("/{postID}/comments", s.CreateComment)
		r.With(s.AuthProtectedMiddleware).Delete("/{postID}/comments/{commentID}", s.DeleteComment)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.AdminPanelLogin)
		r.Post("/bootstrap-admin", s.BootstrapAdmin)
		r.With(s.AuthProtectedMiddleware).Post("/make-admin/{userID}", s.MakeAdmin)
		r.With(s.AuthProtectedMiddleware).Get("/users", s.ListUsers)
		r.With(s.AuthProtectedMiddleware).Post("/users/{userID}/approve", s.ApproveUser)
		r.With(s.AuthProtectedMiddleware).Post("/users/{userID}/ban", s.BanUser)
		r.With(s.AuthProtectedMiddleware).Post("/users/{userID}/unban", s.UnbanUser)
		r.With(s.AuthProtectedMiddleware).Get("/users/{userID}/blogs", s.ListUserPosts)
	})

	r.Route("/contact", func(r chi.Router) {
		r.Post("/", s.CreateContactMessage)
		r.With(s.AuthProtectedMiddleware).Get("/", s.ListContactMessages)
		r.With(s.AuthProtectedMiddleware).Put("/{messageID}/read", s.MarkContactMessageRead)
	})

	r.Route("/upload", func(r chi.Router) {
		r.Use(s.AuthProtectedMiddleware)
		r.Post("/image", s.UploadImage)
		r.Post("/file", s.UploadFile)
		r.Post("/profile-image", s.UploadProfileImage)
	})

	fileServer := http.FileServer(http.Dir(s.UploadDir))
	r.Handle("/static/uploads/*", http.StripPrefix("/static/uploads", fileServer))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// writeError translates service failures into HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrBanned), errors.Is(err, auth.ErrPendingApproval),
		errors.Is(err, auth.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, blog.ErrPostNotFound), errors.Is(err, blog.ErrCommentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrDuplicateIdentity), errors.Is(err, auth.ErrAlreadyBootstrapped),
		errors.Is(err, auth.ErrCannotBanSelf):
		status = http.StatusBadRequest
	case errors.Is(err, config.ErrConfigurationMissing):
		status = http.StatusInternalServerError
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return false
	}
	return true
}
