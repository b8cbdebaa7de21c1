package site

import (
	"log"
	"net/http"

	"github.com/suaybkiraci/BlogSite/constants"
	"github.com/suaybkiraci/BlogSite/templates"
)

// HomePage renders the status page with the latest public posts.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Blog.List(nil, 0, 10)
	if err != nil {
		writeError(w, err)
		return
	}

	recent := make([]templates.PostSummary, 0, len(posts))
	for _, p := range posts {
		recent = append(recent, templates.PostSummary{
			Title: p.Title,
			Slug:  p.Slug,
			Views: p.Views,
		})
	}

	props := templates.LayoutProps{Title: constants.APP_NAME}
	if user := GetSignedInUserOrNil(r); user != nil {
		props.CurrentUser = user.Username
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.HomePage(props, recent).Render(w); err != nil {
		log.Printf("Failed to render home page: %v", err)
	}
}
