package blog

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/suaybkiraci/BlogSite/auth"
	"github.com/suaybkiraci/BlogSite/database"
)

var (
	ErrPostNotFound    = errors.New("blog post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// Service owns the post lifecycle: creation, visibility, moderation,
// comments and attachments.
type Service struct {
	db    *gorm.DB
	views *ViewTracker
}

func NewService(db *gorm.DB, views *ViewTracker) *Service {
	return &Service{db: db, views: views}
}

// CreateInput is what an author submits for a new post.
type CreateInput struct {
	Title       string
	Content     string
	Excerpt     string
	CoverImage  string
	Tags        datatypes.JSON
	IsPublished bool
}

// Create stores a new post for caller. Admin-authored posts are approved
// immediately; everyone else waits for moderation.
func (s *Service) Create(caller *database.User, in CreateInput) (*database.Post, error) {
	slug := UniqueSlug(Slugify(in.Title), s.slugExists(0))

	post := database.Post{
		Title:       in.Title,
		Slug:        slug,
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		CoverImage:  in.CoverImage,
		Tags:        in.Tags,
		IsPublished: in.IsPublished,
		IsApproved:  caller.Role.IsAdmin(),
		AuthorID:    caller.ID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = *caller
	return &post, nil
}

// CanView decides whether viewer (nil for anonymous) may read the post.
// Published and approved posts are public; anything else is reserved for
// the owner and admins.
func CanView(viewer *database.User, post *database.Post) bool {
	if post.IsPublished && post.IsApproved {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.Role.IsAdmin() || viewer.ID == post.AuthorID
}

// GetBySlug is the public read path. A permitted read may bump the view
// counter, at most once per viewer per cooldown window.
func (s *Service) GetBySlug(caller *database.User, slug, viewerKey string) (*database.Post, error) {
	var post database.Post
	err := s.db.Preload("Author").Preload("Comments.Author").Preload("Attachments").
		Where(&database.Post{Slug: slug}).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %q: %w", slug, err)
	}

	if !CanView(caller, &post) {
		return nil, auth.ErrForbidden
	}

	if caller != nil {
		viewerKey = fmt.Sprintf("%d", caller.ID)
	}
	if s.views.ShouldCount(post.ID, viewerKey) {
		post.Views++
		err := s.db.Model(&database.Post{}).Where("id = ?", post.ID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error
		if err != nil {
			return nil, fmt.Errorf("count view: %w", err)
		}
	}

	return &post, nil
}

// GetByID is the edit-surface read: only the author or an admin may use it.
func (s *Service) GetByID(caller *database.User, id uint) (*database.Post, error) {
	var post database.Post
	err := s.db.Preload("Author").Preload("Comments.Author").Preload("Attachments").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", id, err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, post.AuthorID); err != nil {
		return nil, err
	}
	return &post, nil
}

// List pages posts, newest first. Anonymous viewers get only published and
// approved posts; a signed-in user additionally sees their own posts in any
// state; admins see everything.
func (s *Service) List(caller *database.User, skip, limit int) ([]database.Post, error) {
	query := s.db.Model(&database.Post{}).Preload("Author")

	switch {
	case caller == nil:
		query = query.Where("is_published = ? AND is_approved = ?", true, true)
	case !caller.Role.IsAdmin():
		query = query.Where("(is_published = ? AND is_approved = ?) OR author_id = ?",
			true, true, caller.ID)
	}

	var posts []database.Post
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// UpdateInput carries the fields of a post edit; nil means "leave as is".
type UpdateInput struct {
	Title       *string
	Content     *string
	Excerpt     *string
	CoverImage  *string
	Tags        datatypes.JSON
	IsPublished *bool

	// Only admins may touch this; for anyone else it is silently ignored
	// rather than rejected.
	IsApproved *bool
}

// Update edits a post. Owner or admin only. A title change regenerates the
// slug, re-checked for uniqueness against every other post.
func (s *Service) Update(caller *database.User, id uint, in UpdateInput) (*database.Post, error) {
	var post database.Post
	err := s.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", id, err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, post.AuthorID); err != nil {
		return nil, err
	}

	if in.Title != nil && *in.Title != post.Title {
		post.Title = *in.Title
		post.Slug = UniqueSlug(Slugify(*in.Title), s.slugExists(post.ID))
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.CoverImage != nil {
		post.CoverImage = *in.CoverImage
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.IsApproved != nil && caller.Role.IsAdmin() {
		post.IsApproved = *in.IsApproved
	}

	if err := s.db.Save(&post).Error; err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	if err := s.db.First(&post.Author, post.AuthorID).Error; err != nil {
		return nil, fmt.Errorf("load author %d: %w", post.AuthorID, err)
	}
	return &post, nil
}

// Delete removes a post with its comments and attachments. Owner or admin.
func (s *Service) Delete(caller *database.User, id uint) error {
	var post database.Post
	err := s.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("load post %d: %w", id, err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, post.AuthorID); err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&database.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&database.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

// Approve sanctions a post for public visibility. Admin only; approving an
// already approved post is a no-op.
func (s *Service) Approve(caller *database.User, id uint) error {
	return s.setApproved(caller, id, true)
}

// Unapprove withdraws moderation approval. Admin only, idempotent.
func (s *Service) Unapprove(caller *database.User, id uint) error {
	return s.setApproved(caller, id, false)
}

func (s *Service) setApproved(caller *database.User, id uint, approved bool) error {
	if !caller.Role.IsAdmin() {
		return auth.ErrForbidden
	}

	var post database.Post
	err := s.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("load post %d: %w", id, err)
	}

	if post.IsApproved == approved {
		return nil
	}
	post.IsApproved = approved
	if err := s.db.Save(&post).Error; err != nil {
		return fmt.Errorf("set approval on post %d: %w", id, err)
	}
	return nil
}

// AddComment attaches a comment to an existing post.
func (s *Service) AddComment(caller *database.User, postID uint, content string) (*database.Comment, error) {
	if err := s.requirePost(postID); err != nil {
		return nil, err
	}

	comment := database.Comment{
		PostID:   postID,
		AuthorID: caller.ID,
		Content:  content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.Author = *caller
	return &comment, nil
}

// ListComments returns a post's comments. Visibility follows the post: a
// viewer who cannot see the post cannot list its comments.
func (s *Service) ListComments(caller *database.User, postID uint) ([]database.Comment, error) {
	var post database.Post
	err := s.db.First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	if !CanView(caller, &post) {
		return nil, auth.ErrForbidden
	}

	var comments []database.Comment
	err = s.db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Comment author or admin only.
func (s *Service) DeleteComment(caller *database.User, commentID uint) error {
	var comment database.Comment
	err := s.db.First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("load comment %d: %w", commentID, err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, comment.AuthorID); err != nil {
		return err
	}
	if err := s.db.Delete(&comment).Error; err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	return nil
}

// AddAttachment records an uploaded file against a post. Owner or admin.
func (s *Service) AddAttachment(caller *database.User, postID uint, filename, fileURL, fileType string, size int64) (*database.Attachment, error) {
	var post database.Post
	err := s.db.First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	if err := auth.RequireOwnerOrAdmin(caller, post.AuthorID); err != nil {
		return nil, err
	}

	attachment := database.Attachment{
		PostID:   postID,
		Filename: filename,
		FileURL:  fileURL,
		FileType: fileType,
		FileSize: size,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return &attachment, nil
}

func (s *Service) requirePost(postID uint) error {
	var post database.Post
	err := s.db.Select("id").First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("load post %d: %w", postID, err)
	}
	return nil
}

// slugExists builds the uniqueness check for UniqueSlug, ignoring the post
// being edited (0 for a new post).
func (s *Service) slugExists(excludeID uint) func(string) bool {
	return func(slug string) bool {
		var count int64
		// Unscoped: soft-deleted rows still hold their slug in the unique
		// index.
		query := s.db.Unscoped().Model(&database.Post{}).Where("slug = ?", slug)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			// Treat a lookup failure as a collision; the suffixed slug is
			// safe either way.
			return true
		}
		return count > 0
	}
}
