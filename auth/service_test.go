package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/suaybkiraci/BlogSite/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	tokens := NewTokenCodec("test-secret", time.Hour)
	return NewService(db, tokens, "panel-secret")
}

func TestFirstRegisteredUserIsAdmin(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Register("alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("register first: %v", err)
	}
	if first.Role != database.RoleAdmin || !first.IsApproved || first.ApprovedAt == nil {
		t.Fatalf("first user = role %q, approved %v; want admin, approved", first.Role, first.IsApproved)
	}

	second, err := svc.Register("bob", "bob@example.com", "secret")
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	if second.Role != database.RoleUser || second.IsApproved {
		t.Fatalf("second user = role %q, approved %v; want user, pending", second.Role, second.IsApproved)
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("alice", "alice@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register("alice", "other@example.com", "secret"); !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("duplicate username error = %v, want ErrDuplicateIdentity", err)
	}
	if _, err := svc.Register("other", "alice@example.com", "secret"); !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("duplicate email error = %v, want ErrDuplicateIdentity", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register("alice", "alice@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Authenticate("alice", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	user, err := svc.Authorize(token)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("authorized user = %q, want alice", user.Username)
	}

	if _, err := svc.Authenticate("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate("nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticatePendingAccount(t *testing.T) {
	svc := newTestService(t)
	svc.Register("admin", "admin@example.com", "secret")
	svc.Register("bob", "bob@example.com", "secret")

	if _, err := svc.Authenticate("bob", "secret"); !errors.Is(err, ErrPendingApproval) {
		t.Fatalf("pending account error = %v, want ErrPendingApproval", err)
	}
}

func TestBannedTakesPrecedenceOverPending(t *testing.T) {
	svc := newTestService(t)

	user := &database.User{IsBanned: true, IsApproved: false}
	if err := svc.RequireEligible(user); !errors.Is(err, ErrBanned) {
		t.Fatalf("banned+pending error = %v, want ErrBanned", err)
	}

	user = &database.User{IsBanned: true, IsApproved: true}
	if err := svc.RequireEligible(user); !errors.Is(err, ErrBanned) {
		t.Fatalf("banned+approved error = %v, want ErrBanned", err)
	}

	user = &database.User{IsBanned: false, IsApproved: false}
	if err := svc.RequireEligible(user); !errors.Is(err, ErrPendingApproval) {
		t.Fatalf("pending error = %v, want ErrPendingApproval", err)
	}
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	owner := &database.User{Role: database.RoleUser}
	owner.ID = 1
	stranger := &database.User{Role: database.RoleUser}
	stranger.ID = 2
	admin := &database.User{Role: database.RoleAdmin}
	admin.ID = 3

	if err := RequireOwnerOrAdmin(owner, 1); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := RequireOwnerOrAdmin(admin, 1); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if err := RequireOwnerOrAdmin(stranger, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger error = %v, want ErrForbidden", err)
	}
}

func TestAdminCannotBanSelf(t *testing.T) {
	svc := newTestService(t)
	admin, err := svc.Register("admin", "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.BanUser(admin, admin.ID); !errors.Is(err, ErrCannotBanSelf) {
		t.Fatalf("self ban error = %v, want ErrCannotBanSelf", err)
	}

	reloaded, err := svc.ResolveCaller(admin.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if reloaded.IsBanned {
		t.Fatal("self ban must not change the banned flag")
	}
}

func TestBanAndApproveLifecycle(t *testing.T) {
	svc := newTestService(t)
	admin, _ := svc.Register("admin", "admin@example.com", "secret")
	bob, _ := svc.Register("bob", "bob@example.com", "secret")

	if err := svc.BanUser(admin, bob.ID); err != nil {
		t.Fatalf("ban: %v", err)
	}
	target, _ := svc.ResolveCaller(bob.ID)
	if !target.IsBanned {
		t.Fatal("bob should be banned")
	}
	// Idempotent.
	if err := svc.BanUser(admin, bob.ID); err != nil {
		t.Fatalf("repeat ban: %v", err)
	}

	// Approving also clears the ban.
	if err := svc.ApproveUser(admin, bob.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	target, _ = svc.ResolveCaller(bob.ID)
	if target.IsBanned || !target.IsApproved || target.ApprovedAt == nil {
		t.Fatalf("after approve: banned %v approved %v", target.IsBanned, target.IsApproved)
	}
	stamp := *target.ApprovedAt

	// Re-approving an approved account is a no-op.
	if err := svc.ApproveUser(admin, bob.ID); err != nil {
		t.Fatalf("repeat approve: %v", err)
	}
	target, _ = svc.ResolveCaller(bob.ID)
	if !target.ApprovedAt.Equal(stamp) {
		t.Fatal("repeat approve must not restamp approved_at")
	}

	if err := svc.UnbanUser(admin, bob.ID); err != nil {
		t.Fatalf("unban unbanned user: %v", err)
	}

	// Non-admins cannot moderate.
	if err := svc.BanUser(target, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin ban error = %v, want ErrForbidden", err)
	}
}

func TestBootstrapAdmin(t *testing.T) {
	svc := newTestService(t)
	admin, _ := svc.Register("admin", "admin@example.com", "secret")

	// An admin exists, so bootstrap must refuse.
	if _, err := svc.BootstrapAdmin("admin"); !errors.Is(err, ErrAlreadyBootstrapped) {
		t.Fatalf("bootstrap with admin present error = %v, want ErrAlreadyBootstrapped", err)
	}

	// Demote the only admin to simulate a bypassed first-user rule.
	admin.Role = database.RoleUser
	svc.db.Save(admin)
	svc.Register("bob", "bob@example.com", "secret")

	user, err := svc.BootstrapAdmin("bob")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if user.Role != database.RoleAdmin || !user.IsApproved || user.IsBanned {
		t.Fatalf("bootstrapped user = role %q approved %v banned %v", user.Role, user.IsApproved, user.IsBanned)
	}

	if _, err := svc.BootstrapAdmin("nobody"); !errors.Is(err, ErrAlreadyBootstrapped) {
		t.Fatalf("second bootstrap error = %v, want ErrAlreadyBootstrapped", err)
	}
}

func TestMakeAdmin(t *testing.T) {
	svc := newTestService(t)
	admin, _ := svc.Register("admin", "admin@example.com", "secret")
	bob, _ := svc.Register("bob", "bob@example.com", "secret")

	if err := svc.MakeAdmin(bob, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin promote error = %v, want ErrForbidden", err)
	}
	if err := svc.MakeAdmin(admin, bob.ID); err != nil {
		t.Fatalf("promote: %v", err)
	}
	target, _ := svc.ResolveCaller(bob.ID)
	if target.Role != database.RoleAdmin || !target.IsApproved {
		t.Fatalf("promoted user = role %q approved %v", target.Role, target.IsApproved)
	}
}

func TestChangePasswordAndEmail(t *testing.T) {
	svc := newTestService(t)
	alice, _ := svc.Register("alice", "alice@example.com", "secret")
	svc.Register("bob", "bob@example.com", "secret")

	if err := svc.ChangePassword(alice, "wrong", "newpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password error = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(alice, "secret", "newpass"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Authenticate("alice", "newpass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	if err := svc.ChangeEmail(alice, "newpass", "bob@example.com"); !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("taken email error = %v, want ErrDuplicateIdentity", err)
	}
	if err := svc.ChangeEmail(alice, "newpass", "new@example.com"); err != nil {
		t.Fatalf("change email: %v", err)
	}
}

func TestVerifyPanelSecret(t *testing.T) {
	svc := newTestService(t)

	if err := svc.VerifyPanelSecret("panel-secret"); err != nil {
		t.Fatalf("correct secret: %v", err)
	}
	if err := svc.VerifyPanelSecret("wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong secret error = %v, want ErrInvalidCredentials", err)
	}

	svc.panelSecret = ""
	if err := svc.VerifyPanelSecret("anything"); err == nil {
		t.Fatal("unset secret must fail")
	}
}
