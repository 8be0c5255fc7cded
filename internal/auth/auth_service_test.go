package auth

import (
	"context"
	"testing"

	autherrors "github.com/shankar7055/sewa-volunteer-app/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, u *User) error
	getByEmailFn func(ctx context.Context, email string) (*User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
	updateFn     func(ctx context.Context, u *User) error
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error { return f.createFn(ctx, u) }
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, u *User) error { return f.updateFn(ctx, u) }

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var saved *User
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, u *User) error {
			saved = u
			return nil
		},
	}

	svc := NewService(repo)

	resp, token, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Manager One",
		Email:    "manager@example.org",
		Password: "supersecret",
		Role:     RoleManager,
	})
	assert.NoError(t, err)
	assert.Equal(t, RoleManager, resp.Role)
	assert.NotEmpty(t, token)

	if assert.NotNil(t, saved) {
		assert.NotEqual(t, "supersecret", saved.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("supersecret")))
	}

	// Token carries the claims the middleware reads.
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, saved.ID.String(), claims["user_id"])
	assert.Equal(t, RoleManager, claims["role"])
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, u *User) error { return nil },
	}

	resp, _, err := NewService(repo).Register(context.Background(), RegisterRequest{
		Name:     "Scanner",
		Email:    "scanner@example.org",
		Password: "supersecret",
	})
	assert.NoError(t, err)
	assert.Equal(t, RoleUser, resp.Role)
}

func TestRegister_EmailAlreadyRegistered(t *testing.T) {
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: uuid.New(), Email: email}, nil
		},
	}

	_, _, err := NewService(repo).Register(context.Background(), RegisterRequest{
		Name:     "Dup",
		Email:    "dup@example.org",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
}

func TestLogin_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	user := &User{ID: uuid.New(), Name: "Asha", Email: "asha@example.org", Password: string(hashed), Role: RoleAdmin}

	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	resp, token, err := NewService(repo).Login(context.Background(), "asha@example.org", "supersecret")
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), resp.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: uuid.New(), Password: string(hashed)}, nil
		},
	}

	_, _, err := NewService(repo).Login(context.Background(), "asha@example.org", "wrong")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	_, _, err := NewService(repo).Login(context.Background(), "ghost@example.org", "supersecret")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestUpdateProfile_WrongCurrentPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	id := uuid.New()
	repo := &fakeRepo{
		getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*User, error) {
			return &User{ID: id, Password: string(hashed)}, nil
		},
	}

	_, err := NewService(repo).UpdateProfile(context.Background(), id.String(), UpdateProfileRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret1",
	})
	assert.ErrorIs(t, err, autherrors.ErrWrongCurrentPassword)
}

func TestUpdateProfile_ChangesPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	id := uuid.New()
	var saved *User
	repo := &fakeRepo{
		getByIDFn: func(ctx context.Context, gotID uuid.UUID) (*User, error) {
			return &User{ID: id, Name: "Asha", Email: "asha@example.org", Password: string(hashed)}, nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			saved = u
			return nil
		},
	}

	_, err := NewService(repo).UpdateProfile(context.Background(), id.String(), UpdateProfileRequest{
		CurrentPassword: "supersecret",
		NewPassword:     "newsecret1",
	})
	assert.NoError(t, err)
	if assert.NotNil(t, saved) {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("newsecret1")))
	}
}

func TestGetProfile_InvalidUserID(t *testing.T) {
	_, err := NewService(&fakeRepo{}).GetProfile(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
}
