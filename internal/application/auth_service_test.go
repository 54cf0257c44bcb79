package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/pkg/helpers"
)

func newAuthService() (*AuthService, *memUserRepo) {
	repo := newMemUserRepo()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, jwt, nil), repo
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newAuthService()

	u, token, _, err := s.Register(ctx, RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "password123",
		Role: entity.RoleDonor, Organization: "Soup Kitchen",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.ID == "" || token == "" {
		t.Fatalf("expected user id and token")
	}
	if u.Password == "password123" {
		t.Fatalf("stored password must be hashed")
	}

	// Duplicate email.
	if _, _, _, err := s.Register(ctx, RegisterInput{
		Name: "Alice2", Email: "alice@example.com", Password: "password456", Role: entity.RoleDonor,
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Login ok.
	lu, ltoken, _, err := s.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if lu.ID != u.ID || ltoken == "" {
		t.Fatalf("expected matching user and token on login")
	}
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newAuthService()

	if _, _, _, err := s.Register(ctx, RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "password123", Role: entity.RoleReceiver,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _, wrongPwd := s.Login(ctx, "bob@example.com", "wrong-password")
	_, _, _, noUser := s.Login(ctx, "nobody@example.com", "password123")

	if !errors.Is(wrongPwd, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPwd)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", noUser)
	}
	// Same error value means the HTTP layer cannot help leaking which case it was.
	if wrongPwd.Error() != noUser.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", wrongPwd, noUser)
	}
}

// brokenUserRepo simulates a datastore outage on email lookups.
type brokenUserRepo struct {
	*memUserRepo
	emailErr error
}

func (r *brokenUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.emailErr != nil {
		return nil, r.emailErr
	}
	return r.memUserRepo.GetByEmail(ctx, email)
}

func TestLogin_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &brokenUserRepo{memUserRepo: newMemUserRepo()}
	s := NewAuthService(repo, helpers.NewJWTManager("test-secret", time.Hour), nil)

	if _, _, _, err := s.Register(ctx, RegisterInput{
		Name: "Dana", Email: "dana@example.com", Password: "password123", Role: entity.RoleDonor,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	outage := errors.New("connection refused")
	repo.emailErr = outage

	_, _, _, err := s.Login(ctx, "dana@example.com", "password123")
	if !errors.Is(err, outage) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("a store outage must not look like a bad password")
	}
}

func TestUpdateProfile_MissingMeansUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newAuthService()

	u, _, _, err := s.Register(ctx, RegisterInput{
		Name: "Cara", Email: "cara@example.com", Password: "password123",
		Role: entity.RoleDonor, Organization: "Bakery Co", Location: "Cape Town", Phone: "+2711",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := s.UpdateProfile(ctx, u.ID, UpdateProfileInput{Location: "Durban"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Location != "Durban" {
		t.Fatalf("location not updated: %q", updated.Location)
	}
	if updated.Name != "Cara" || updated.Organization != "Bakery Co" || updated.Phone != "+2711" {
		t.Fatalf("omitted fields must stay unchanged: %+v", updated)
	}

	// An explicit empty string behaves exactly like an omitted field.
	updated, err = s.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: "", Phone: "+2722"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Cara" || updated.Phone != "+2722" {
		t.Fatalf("empty name must be ignored: %+v", updated)
	}
}
