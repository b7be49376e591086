package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"naform.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFormRepo(t *testing.T) (IFormRepository, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFormRepository(dir), dir
}

func sampleConfig(id string) *models.FormConfig {
	return &models.FormConfig{
		ID:      id,
		Name:    "Test Form",
		URLSlug: id,
		Status:  models.StatusInternal,
		Tags:    []string{},
		FormDefinition: models.FormDefinition{
			"title": "Test Form",
			"pages": []interface{}{
				map[string]interface{}{
					"name": "page1",
					"elements": []interface{}{
						map[string]interface{}{"type": "text", "name": "field1"},
					},
				},
			},
		},
		CreatedAt: "2026-01-01T00:00:00Z",
	}
}

func TestFormRepositoryCreateAndFind(t *testing.T) {
	repo, dir := newTestFormRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleConfig("client-intake")))

	// Dosya kimlik adıyla yazılmış olmalı.
	_, err := os.Stat(filepath.Join(dir, "client-intake.json"))
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "client-intake")
	require.NoError(t, err)
	assert.Equal(t, "client-intake", found.ID)
	assert.Equal(t, "Test Form", found.Name)
}

func TestFormRepositoryFindByIDNotFound(t *testing.T) {
	repo, _ := newTestFormRepo(t)

	_, err := repo.FindByID(context.Background(), "yok-boyle-bir-form")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormRepositoryFindByIDRejectsUnsafeID(t *testing.T) {
	repo, _ := newTestFormRepo(t)

	// Path traversal denemeleri dosya sistemine hiç inmeden NotFound almalı.
	for _, id := range []string{"../etc/passwd", "a/b", "form.json", "..", ""} {
		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, "id: %q", id)
	}
}

func TestFormRepositoryListMissingDirIsEmpty(t *testing.T) {
	repo := NewFormRepository(filepath.Join(t.TempDir(), "henuz-yok"))

	forms, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestFormRepositoryListSkipsInvalidFiles(t *testing.T) {
	repo, dir := newTestFormRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleConfig("gecerli-form")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bozuk.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("csv degil"), 0o644))

	forms, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "gecerli-form", forms[0].ID)
}

func TestFormRepositoryListNormalizesLegacyStatus(t *testing.T) {
	repo, dir := newTestFormRepo(t)

	legacy := `{"id":"eski-form","name":"Eski","urlSlug":"eski-form","status":"Published","isPublic":true,"formDefinition":{}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eski-form.json"), []byte(legacy), 0o644))

	forms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, models.StatusPublic, forms[0].Status)
}

func TestFormRepositoryFindBySlugFirstMatchWins(t *testing.T) {
	repo, _ := newTestFormRepo(t)
	ctx := context.Background()

	a := sampleConfig("form-a")
	a.URLSlug = "ortak-slug"
	b := sampleConfig("form-b")
	b.URLSlug = "baska-slug"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	found, err := repo.FindBySlug(ctx, "ortak-slug")
	require.NoError(t, err)
	assert.Equal(t, "form-a", found.ID)

	_, err = repo.FindBySlug(ctx, "hic-yok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormRepositorySaveOverwritesWholeFile(t *testing.T) {
	repo, _ := newTestFormRepo(t)
	ctx := context.Background()

	cfg := sampleConfig("form-x")
	require.NoError(t, repo.Create(ctx, cfg))

	cfg.Name = "Yeni Ad"
	cfg.IsPublic = true
	cfg.Status = models.StatusPublic
	require.NoError(t, repo.Save(ctx, cfg))

	found, err := repo.FindByID(ctx, "form-x")
	require.NoError(t, err)
	assert.Equal(t, "Yeni Ad", found.Name)
	assert.True(t, found.IsPublic)
	assert.Equal(t, models.StatusPublic, found.Status)
}
