package service

import (
	"context"
	"strings"
	"testing"

	"vibella/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	statsFn         func(context.Context, uint) (*models.UserStats, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Stats(ctx context.Context, userID uint) (*models.UserStats, error) {
	return s.statsFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "casey"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		statsFn:         func(_ context.Context, _ uint) (*models.UserStats, error) { return &models.UserStats{}, nil },
	}
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input UpdateProfileInput
	}{
		{
			name:  "invalid username",
			input: UpdateProfileInput{UserID: 1, Username: "a b!"},
		},
		{
			name:  "username too short",
			input: UpdateProfileInput{UserID: 1, Username: "ab"},
		},
		{
			name:  "full name too long",
			input: UpdateProfileInput{UserID: 1, FullName: strings.Repeat("x", 101)},
		},
		{
			name:  "bio too long",
			input: UpdateProfileInput{UserID: 1, Bio: strings.Repeat("x", 501)},
		},
		{
			name:  "goals too long",
			input: UpdateProfileInput{UserID: 1, Goals: strings.Repeat("x", 1001)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.UpdateProfile(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	var updated *models.User
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "casey", FullName: "Casey", Bio: "old bio"}, nil
	}
	repo.updateFn = func(_ context.Context, user *models.User) error {
		updated = user
		return nil
	}

	svc := NewUserService(repo)
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: "new bio"})
	require.NoError(t, err)
	require.NotNil(t, updated)

	// Blank fields keep their current values.
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, "casey", updated.Username)
	assert.Equal(t, "Casey", updated.FullName)
}

func TestUserService_UpdateProfile_SameUsernameSkipsValidation(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		// Two chars would fail validation if treated as a change.
		return &models.User{ID: id, Username: "ab"}, nil
	}

	svc := NewUserService(repo)
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "ab"})
	assert.NoError(t, err)
}

func TestUserService_UpdatePassword(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("CorrectHorse1!xx"), bcrypt.MinCost)
	require.NoError(t, err)

	newRepo := func() *userRepoStub {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Password: string(hashed)}, nil
		}
		return repo
	}

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(newRepo())
		err := svc.UpdatePassword(context.Background(), UpdatePasswordInput{
			UserID:      1,
			OldPassword: "nope",
			NewPassword: "BrandNewSecret1!",
		})
		assertUnauthorizedError(t, err)
	})

	t.Run("weak new password", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(newRepo())
		err := svc.UpdatePassword(context.Background(), UpdatePasswordInput{
			UserID:      1,
			OldPassword: "CorrectHorse1!xx",
			NewPassword: "short",
		})
		assertValidationError(t, err)
	})

	t.Run("valid change stores a new hash", func(t *testing.T) {
		t.Parallel()
		repo := newRepo()
		var updated *models.User
		repo.updateFn = func(_ context.Context, user *models.User) error {
			updated = user
			return nil
		}
		svc := NewUserService(repo)
		err := svc.UpdatePassword(context.Background(), UpdatePasswordInput{
			UserID:      1,
			OldPassword: "CorrectHorse1!xx",
			NewPassword: "BrandNewSecret1!",
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.NotEqual(t, string(hashed), updated.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("BrandNewSecret1!")))
	})
}

func TestUserService_GetStats_MissingUser(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	svc := NewUserService(repo)

	_, err := svc.GetStats(context.Background(), 99)
	assertNotFoundError(t, err)
}

func TestUserService_SetAdmin(t *testing.T) {
	t.Parallel()

	var updated *models.User
	repo := noopUserRepo()
	repo.updateFn = func(_ context.Context, user *models.User) error {
		updated = user
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.SetAdmin(context.Background(), 4, true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	require.NotNil(t, updated)
	assert.True(t, updated.IsAdmin)
}
