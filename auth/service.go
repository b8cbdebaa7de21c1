package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/suaybkiraci/BlogSite/config"
	"github.com/suaybkiraci/BlogSite/database"
)

// Service owns account registration, authentication and moderation.
type Service struct {
	db          *gorm.DB
	tokens      *TokenCodec
	panelSecret string
}

func NewService(db *gorm.DB, tokens *TokenCodec, panelSecret string) *Service {
	return &Service{db: db, tokens: tokens, panelSecret: panelSecret}
}

// Register creates an account. The first account ever registered is promoted
// to admin and approved immediately so a fresh install has a moderator.
func (s *Service) Register(username, email, password string) (*database.User, error) {
	var count int64
	if err := s.db.Model(&database.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	firstUser := count == 0

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := database.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         database.RoleUser,
		IsApproved:   firstUser,
	}
	if firstUser {
		user.Role = database.RoleAdmin
		now := time.Now()
		user.ApprovedAt = &now
	}

	// The unique indexes are the authority on identity collisions; a
	// check-then-insert lookup would race with concurrent registrations.
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies credentials and, if the account may act, issues a
// session token. A missing account and a wrong password are reported the
// same way.
func (s *Service) Authenticate(username, password string) (string, error) {
	var user database.User
	err := s.db.Where(&database.User{Username: username}).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	if err := s.RequireEligible(&user); err != nil {
		return "", err
	}

	return s.tokens.Issue(user.ID)
}

// Authorize resolves a session token to an eligible account.
func (s *Service) Authorize(token string) (*database.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.ResolveCaller(userID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireEligible(user); err != nil {
		return nil, err
	}
	return user, nil
}

// AuthorizeOptional is Authorize for public-optional endpoints: any failure
// yields an anonymous caller instead of an error.
func (s *Service) AuthorizeOptional(token string) *database.User {
	if token == "" {
		return nil
	}
	user, err := s.Authorize(token)
	if err != nil {
		return nil
	}
	return user
}

// ResolveCaller loads the account behind a token subject.
func (s *Service) ResolveCaller(userID uint) (*database.User, error) {
	var user database.User
	err := s.db.First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return &user, nil
}

// RequireEligible rejects banned and unapproved accounts. The banned check
// runs first: a banned-and-unapproved account reports Banned.
func (s *Service) RequireEligible(user *database.User) error {
	if user.IsBanned {
		return ErrBanned
	}
	if !user.IsApproved {
		return ErrPendingApproval
	}
	return nil
}

func (s *Service) RequireAdmin(user *database.User) error {
	if !user.Role.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin permits the resource owner and admins. It is a pure
// predicate shared by every ownership-scoped operation.
func RequireOwnerOrAdmin(user *database.User, ownerID uint) error {
	if user.Role.IsAdmin() || user.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

// UserSummary is the admin listing view of an account.
type UserSummary struct {
	User      database.User
	BlogCount int64
}

// ListUsers returns accounts for the admin panel, newest first. status may
// be "pending", "banned", "active" or empty for all.
func (s *Service) ListUsers(actor *database.User, status string) ([]UserSummary, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}

	query := s.db.Model(&database.User{})
	switch status {
	case "pending":
		query = query.Where("is_approved = ? AND is_banned = ?", false, false)
	case "banned":
		query = query.Where("is_banned = ?", true)
	case "active":
		query = query.Where("is_approved = ? AND is_banned = ?", true, false)
	}

	var users []database.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		var posts int64
		err := s.db.Model(&database.Post{}).Where("author_id = ?", u.ID).Count(&posts).Error
		if err != nil {
			return nil, fmt.Errorf("count posts for user %d: %w", u.ID, err)
		}
		summaries = append(summaries, UserSummary{User: u, BlogCount: posts})
	}
	return summaries, nil
}

// ApproveUser marks an account approved, clearing any ban. Re-approving an
// already approved account is a no-op.
func (s *Service) ApproveUser(actor *database.User, userID uint) error {
	if err := s.RequireAdmin(actor); err != nil {
		return err
	}
	target, err := s.ResolveCaller(userID)
	if err != nil {
		return err
	}
	if target.IsApproved && !target.IsBanned {
		return nil
	}

	now := time.Now()
	target.IsApproved = true
	target.IsBanned = false
	target.ApprovedAt = &now
	if err := s.db.Save(target).Error; err != nil {
		return fmt.Errorf("approve user %d: %w", userID, err)
	}
	return nil
}

// BanUser bans an account. An admin cannot ban themselves.
func (s *Service) BanUser(actor *database.User, userID uint) error {
	if err := s.RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == userID {
		return ErrCannotBanSelf
	}
	target, err := s.ResolveCaller(userID)
	if err != nil {
		return err
	}
	if target.IsBanned {
		return nil
	}

	target.IsBanned = true
	if err := s.db.Save(target).Error; err != nil {
		return fmt.Errorf("ban user %d: %w", userID, err)
	}
	return nil
}

func (s *Service) UnbanUser(actor *database.User, userID uint) error {
	if err := s.RequireAdmin(actor); err != nil {
		return err
	}
	target, err := s.ResolveCaller(userID)
	if err != nil {
		return err
	}
	if !target.IsBanned {
		return nil
	}

	target.IsBanned = false
	if err := s.db.Save(target).Error; err != nil {
		return fmt.Errorf("unban user %d: %w", userID, err)
	}
	return nil
}

// MakeAdmin promotes an account; only existing admins may do this.
func (s *Service) MakeAdmin(actor *database.User, userID uint) error {
	if err := s.RequireAdmin(actor); err != nil {
		return err
	}
	target, err := s.ResolveCaller(userID)
	if err != nil {
		return err
	}

	target.Role = database.RoleAdmin
	target.IsApproved = true
	if target.ApprovedAt == nil {
		now := time.Now()
		target.ApprovedAt = &now
	}
	if err := s.db.Save(target).Error; err != nil {
		return fmt.Errorf("promote user %d: %w", userID, err)
	}
	return nil
}

// BootstrapAdmin promotes the named account to admin, but only while no
// admin exists at all. It is the recovery path for installs where the
// first-user rule was bypassed.
func (s *Service) BootstrapAdmin(username string) (*database.User, error) {
	var admins int64
	err := s.db.Model(&database.User{}).Where("role = ?", database.RoleAdmin).Count(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return nil, ErrAlreadyBootstrapped
	}

	var user database.User
	err = s.db.Where(&database.User{Username: username}).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	now := time.Now()
	user.Role = database.RoleAdmin
	user.IsApproved = true
	user.IsBanned = false
	user.ApprovedAt = &now
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	return &user, nil
}

// ChangePassword re-hashes after verifying the current password.
func (s *Service) ChangePassword(user *database.User, current, newPassword string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ChangeEmail swaps the account email after verifying the current password.
func (s *Service) ChangeEmail(user *database.User, currentPassword, newEmail string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}

	var existing database.User
	err := s.db.Where(&database.User{Email: newEmail}).First(&existing).Error
	if err == nil && existing.ID != user.ID {
		return ErrDuplicateIdentity
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up email: %w", err)
	}

	user.Email = newEmail
	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("update email: %w", err)
	}
	return nil
}

// SetProfileImage stores the account's profile image URL.
func (s *Service) SetProfileImage(user *database.User, url string) error {
	user.ProfileImage = url
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("update profile image: %w", err)
	}
	return nil
}

// VerifyPanelSecret checks the admin panel secret.
func (s *Service) VerifyPanelSecret(secret string) error {
	if s.panelSecret == "" {
		return fmt.Errorf("%w: ADMIN_PANEL_SECRET", config.ErrConfigurationMissing)
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.panelSecret)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
