package site

import (
	"time"

	"gorm.io/datatypes"

	"github.com/suaybkiraci/BlogSite/blog"
	"github.com/suaybkiraci/BlogSite/database"
)

type userOut struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	IsApproved   bool       `json:"is_approved"`
	IsBanned     bool       `json:"is_banned"`
	ProfileImage string     `json:"profile_image,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
}

func newUserOut(u *database.User) userOut {
	return userOut{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		IsApproved:   u.IsApproved,
		IsBanned:     u.IsBanned,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		ApprovedAt:   u.ApprovedAt,
	}
}

type commentOut struct {
	ID             uint      `json:"id"`
	PostID         uint      `json:"post_id"`
	Content        string    `json:"content"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
}

func newCommentOut(c *database.Comment) commentOut {
	return commentOut{
		ID:             c.ID,
		PostID:         c.PostID,
		Content:        c.Content,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.Author.Username,
		CreatedAt:      c.CreatedAt,
	}
}

type attachmentOut struct {
	ID       uint   `json:"id"`
	PostID   uint   `json:"post_id"`
	Filename string `json:"filename"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type postListItem struct {
	ID             uint           `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Excerpt        string         `json:"excerpt"`
	CoverImage     string         `json:"cover_image,omitempty"`
	IsPublished    bool           `json:"is_published"`
	IsApproved     bool           `json:"is_approved"`
	Views          uint           `json:"views"`
	Tags           datatypes.JSON `json:"tags,omitempty"`
	AuthorID       uint           `json:"author_id"`
	AuthorUsername string         `json:"author_username"`
	CreatedAt      time.Time      `json:"created_at"`
}

func newPostListItem(p *database.Post) postListItem {
	return postListItem{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		CoverImage:     p.CoverImage,
		IsPublished:    p.IsPublished,
		IsApproved:     p.IsApproved,
		Views:          p.Views,
		Tags:           p.Tags,
		AuthorID:       p.AuthorID,
		AuthorUsername: p.Author.Username,
		CreatedAt:      p.CreatedAt,
	}
}

type postOut struct {
	postListItem
	Content     string          `json:"content"`
	ContentHTML string          `json:"content_html,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Comments    []commentOut    `json:"comments"`
	Attachments []attachmentOut `json:"attachments"`
}

func newPostOut(p *database.Post, renderHTML bool) postOut {
	out := postOut{
		postListItem: newPostListItem(p),
		Content:      p.Content,
		UpdatedAt:    p.UpdatedAt,
		Comments:     make([]commentOut, 0, len(p.Comments)),
		Attachments:  make([]attachmentOut, 0, len(p.Attachments)),
	}
	if renderHTML {
		out.ContentHTML = blog.RenderHTML(p.Content)
	}
	for i := range p.Comments {
		out.Comments = append(out.Comments, newCommentOut(&p.Comments[i]))
	}
	for _, a := range p.Attachments {
		out.Attachments = append(out.Attachments, attachmentOut{
			ID:       a.ID,
			PostID:   a.PostID,
			Filename: a.Filename,
			FileURL:  a.FileURL,
			FileType: a.FileType,
			FileSize: a.FileSize,
		})
	}
	return out
}
