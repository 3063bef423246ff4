package service

import (
	"context"
	"errors"
	"testing"

	"vibella/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expertRepoStub is a stub for repository.ExpertContentRepository.
type expertRepoStub struct {
	createFn         func(context.Context, *models.ExpertContent) error
	getByIDFn        func(context.Context, uint) (*models.ExpertContent, error)
	listFn           func(context.Context, string, int, int) ([]models.ExpertContent, error)
	incrementViewsFn func(context.Context, uint) error
}

func (s *expertRepoStub) Create(ctx context.Context, content *models.ExpertContent) error {
	return s.createFn(ctx, content)
}
func (s *expertRepoStub) GetByID(ctx context.Context, id uint) (*models.ExpertContent, error) {
	return s.getByIDFn(ctx, id)
}
func (s *expertRepoStub) List(ctx context.Context, contentType string, limit, offset int) ([]models.ExpertContent, error) {
	return s.listFn(ctx, contentType, limit, offset)
}
func (s *expertRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}

func noopExpertRepo() *expertRepoStub {
	return &expertRepoStub{
		createFn: func(_ context.Context, _ *models.ExpertContent) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.ExpertContent, error) {
			return &models.ExpertContent{ID: id, ViewsCount: 10}, nil
		},
		listFn: func(_ context.Context, _ string, _, _ int) ([]models.ExpertContent, error) {
			return nil, nil
		},
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func TestExpertService_CreateContent_Validation(t *testing.T) {
	t.Parallel()

	svc := NewExpertService(noopExpertRepo(), alwaysAdmin)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateExpertContentInput
	}{
		{
			name:  "empty title",
			input: CreateExpertContentInput{UserID: 1, Title: "  ", ContentType: "article"},
		},
		{
			name:  "unknown content type",
			input: CreateExpertContentInput{UserID: 1, Title: "T", ContentType: "podcast"},
		},
		{
			name:  "video without url",
			input: CreateExpertContentInput{UserID: 1, Title: "T", ContentType: "video"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateContent(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestExpertService_CreateContent_AdminOnly(t *testing.T) {
	t.Parallel()

	notAdmin := func(_ context.Context, _ uint) (bool, error) { return false, nil }
	svc := NewExpertService(noopExpertRepo(), notAdmin)

	_, err := svc.CreateContent(context.Background(), CreateExpertContentInput{
		UserID:      2,
		Title:       "Box breathing basics",
		ContentType: "tip",
	})
	assertUnauthorizedError(t, err)
}

func TestExpertService_CreateContent_SetsAuthor(t *testing.T) {
	t.Parallel()

	var created *models.ExpertContent
	repo := noopExpertRepo()
	repo.createFn = func(_ context.Context, content *models.ExpertContent) error {
		created = content
		return nil
	}
	svc := NewExpertService(repo, alwaysAdmin)

	_, err := svc.CreateContent(context.Background(), CreateExpertContentInput{
		UserID:      7,
		Title:       "Sleep hygiene deep dive",
		ContentType: "Article",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.AuthorID)
	assert.Equal(t, uint(7), *created.AuthorID)
	assert.Equal(t, "article", created.ContentType)
}

func TestExpertService_GetContent_BumpsViews(t *testing.T) {
	t.Parallel()

	bumped := false
	repo := noopExpertRepo()
	repo.incrementViewsFn = func(_ context.Context, id uint) error {
		bumped = true
		assert.Equal(t, uint(3), id)
		return nil
	}
	svc := NewExpertService(repo, nil)

	content, err := svc.GetContent(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, bumped)
	assert.Equal(t, 11, content.ViewsCount)
}

func TestExpertService_GetContent_ViewBumpFailureIsIgnored(t *testing.T) {
	t.Parallel()

	repo := noopExpertRepo()
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		return errors.New("update failed")
	}
	svc := NewExpertService(repo, nil)

	content, err := svc.GetContent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 10, content.ViewsCount)
}

func TestExpertService_ListContent_LimitClamped(t *testing.T) {
	t.Parallel()

	var gotType string
	var gotLimit int
	repo := noopExpertRepo()
	repo.listFn = func(_ context.Context, contentType string, limit, _ int) ([]models.ExpertContent, error) {
		gotType = contentType
		gotLimit = limit
		return nil, nil
	}
	svc := NewExpertService(repo, nil)

	_, err := svc.ListContent(context.Background(), "video", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "video", gotType)
	assert.Equal(t, 20, gotLimit)

	_, err = svc.ListContent(context.Background(), "", 999, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)
}
