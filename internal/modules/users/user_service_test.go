package users

import (
	"context"
	"errors"
	"testing"

	"freight-dispatch/internal/models"
	"freight-dispatch/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users     map[string]*models.User // keyed by username
	duplicate bool

	fcmUpdates map[string]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*models.User{}, fcmUpdates: map[string]string{}}
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) ListByIDs(_ context.Context, _ []string) ([]models.User, error) {
	return nil, nil
}

func (r *stubUserRepo) List(_ context.Context, _ models.Role, _, _ int) ([]models.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if r.duplicate {
		return nil, models.ErrDuplicateUser
	}
	user.ID = "user-" + user.Username
	user.Status = models.UserActive
	r.users[user.Username] = user
	return user, nil
}

func (r *stubUserRepo) Update(_ context.Context, _ string, _ models.UserUpdateData) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (r *stubUserRepo) UpdateFCMToken(_ context.Context, userID, token string) error {
	r.fcmUpdates[userID] = token
	return nil
}

func newTestService(repo *stubUserRepo) ServiceInterface {
	return NewService(repo, "test-secret", logger.Nop())
}

func TestSignup(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		ContactNo: "5551234567",
		Password:  "hunter2hunter2",
		Type:      models.RoleDriver,
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected a signed access token")
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash must not be returned")
	}
	if resp.User.Type != models.RoleDriver {
		t.Errorf("role = %s, want driver", resp.User.Type)
	}

	// The stored hash must verify against the original password.
	stored := repo.users["alice"]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestSignupDefaultsToCustomer(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		Username: "bob", Email: "bob@example.com", ContactNo: "5550000000", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.User.Type != models.RoleCustomer {
		t.Errorf("role = %s, want customer", resp.User.Type)
	}
}

func TestSignupDuplicate(t *testing.T) {
	repo := newStubUserRepo()
	repo.duplicate = true
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Username: "alice", Email: "alice@example.com", ContactNo: "5551234567", Password: "password123",
	})
	if !errors.Is(err, models.ErrDuplicateUser) {
		t.Errorf("err = %v, want ErrDuplicateUser", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	repo.users["alice"] = &models.User{ID: "user-alice", Username: "alice", PasswordHash: string(hash)}
	svc := newTestService(repo)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid credentials", "alice", "correct-horse", nil},
		{"wrong password", "alice", "battery-staple", models.ErrInvalidCredentials},
		{"unknown user", "mallory", "whatever", models.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), models.LoginRequest{
				Username: tt.username, Password: tt.password,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if resp.AccessToken == "" {
				t.Error("expected a signed access token")
			}
		})
	}
}

func TestLoginRefreshesFCMToken(t *testing.T) {
	repo := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	repo.users["alice"] = &models.User{ID: "user-alice", Username: "alice", PasswordHash: string(hash)}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "alice", Password: "correct-horse", FCMToken: "device-token-9",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if repo.fcmUpdates["user-alice"] != "device-token-9" {
		t.Errorf("fcm updates = %v, want device-token-9 for user-alice", repo.fcmUpdates)
	}
}
