package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"naform.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func mustCreate(t *testing.T, svc IFormService, name string) *models.FormConfig {
	t.Helper()
	cfg, err := svc.CreateFromPrompt(context.Background(), name, "test formu", "")
	require.NoError(t, err)
	return cfg
}

func TestCreateFromPromptDerivesID(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("Client Intake")})

	cfg := mustCreate(t, svc, "Client Intake!!")

	assert.Equal(t, "client-intake", cfg.ID)
	assert.Equal(t, "client-intake", cfg.URLSlug)
	assert.Equal(t, "Client Intake!!", cfg.Name)
	assert.Equal(t, models.StatusInternal, cfg.Status)
	assert.False(t, cfg.IsPublic)
	assert.Equal(t, "stub-model", cfg.GeneratedBy)
	assert.NotEmpty(t, cfg.CreatedAt)
}

func TestCreateFromPromptNormalizesSinglePage(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("Tek Sayfa")})

	cfg := mustCreate(t, svc, "Tek Sayfa")

	// Tek sayfalı formda ilerleme çubuğu kapatılır.
	assert.Equal(t, false, cfg.FormDefinition["showProgressBar"])
	_, hasBarType := cfg.FormDefinition["progressBarType"]
	assert.False(t, hasBarType)
}

func TestCreateFromPromptRequiresNameAndDescription(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})

	_, err := svc.CreateFromPrompt(context.Background(), "", "aciklama", "")
	assert.ErrorIs(t, err, ErrFormNameRequired)

	_, err = svc.CreateFromPrompt(context.Background(), "Ad", "", "")
	assert.ErrorIs(t, err, ErrFormNameRequired)
}

func TestCreateFromPromptWithoutGenerator(t *testing.T) {
	svc, _, _ := newTestFormService(t, nil)

	_, err := svc.CreateFromPrompt(context.Background(), "Ad", "aciklama", "")
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
}

func TestCreateFromPromptWithWebhookEnablesSetting(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})

	cfg, err := svc.CreateFromPrompt(context.Background(), "Webhooklu Form", "aciklama", "https://example.com/hook")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", cfg.WebhookURLValue())
	assert.True(t, cfg.Settings.EnableWebhook)
}

// --- Durum/görünürlük durum makinesi ---

func TestLifecycleStateMachine(t *testing.T) {
	tests := []struct {
		name       string
		start      models.FormStatus
		startPub   bool
		upd        models.FormUpdate
		wantStatus models.FormStatus
		wantPublic bool
	}{
		{"isPublic true yapar Public", models.StatusInternal, false,
			models.FormUpdate{IsPublic: boolPtr(true)}, models.StatusPublic, true},
		{"isPublic false yapar Internal", models.StatusPublic, true,
			models.FormUpdate{IsPublic: boolPtr(false)}, models.StatusInternal, false},
		{"arsivdeyken isPublic false durumu korur", models.StatusArchived, false,
			models.FormUpdate{IsPublic: boolPtr(false)}, models.StatusArchived, false},
		{"status Public yapar isPublic true", models.StatusInternal, false,
			models.FormUpdate{Status: strPtr("Public")}, models.StatusPublic, true},
		{"status Internal yapar isPublic false", models.StatusPublic, true,
			models.FormUpdate{Status: strPtr("Internal")}, models.StatusInternal, false},
		{"arsiv isPublic bayragina dokunmaz", models.StatusPublic, true,
			models.FormUpdate{Status: strPtr("Archived")}, models.StatusArchived, true},
		{"ikisi birden: acik status kazanir", models.StatusInternal, false,
			models.FormUpdate{IsPublic: boolPtr(true), Status: strPtr("Internal")}, models.StatusInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.FormConfig{Status: tt.start, IsPublic: tt.startPub}
			upd := tt.upd
			applyLifecycle(cfg, &upd)
			assert.Equal(t, tt.wantStatus, cfg.Status)
			assert.Equal(t, tt.wantPublic, cfg.IsPublic)
		})
	}
}

func TestUpdateFormPartialMergeLeavesOtherFields(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})
	ctx := context.Background()

	created := mustCreate(t, svc, "Iletisim Formu")

	updated, err := svc.UpdateForm(ctx, created.ID, &models.FormUpdate{
		Description: strPtr("yeni açıklama"),
	})
	require.NoError(t, err)

	assert.Equal(t, "yeni açıklama", updated.Description)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.URLSlug, updated.URLSlug)
	assert.Equal(t, created.Status, updated.Status)
	assert.Equal(t, created.FormDefinition["title"], updated.FormDefinition["title"])
	assert.NotEmpty(t, updated.UpdatedAt)
}

func TestUpdateFormWebhookNullClears(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})
	ctx := context.Background()

	created, err := svc.CreateFromPrompt(ctx, "Hooklu", "aciklama", "https://example.com/hook")
	require.NoError(t, err)

	// Alan hiç gönderilmezse mevcut adres korunur.
	updated, err := svc.UpdateForm(ctx, created.ID, &models.FormUpdate{Description: strPtr("x")})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", updated.WebhookURLValue())

	// Açık null adresi temizler.
	updated, err = svc.UpdateForm(ctx, created.ID, &models.FormUpdate{WebhookURL: json.RawMessage("null")})
	require.NoError(t, err)
	assert.Nil(t, updated.WebhookURL)
	assert.False(t, updated.Settings.EnableWebhook)

	// String yeni adresi atar.
	updated, err = svc.UpdateForm(ctx, created.ID, &models.FormUpdate{WebhookURL: json.RawMessage(`"https://example.org/v2"`)})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/v2", updated.WebhookURLValue())
	assert.True(t, updated.Settings.EnableWebhook)
}

func TestUpdateFormRejectsInvalidDefinition(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})
	ctx := context.Background()

	created := mustCreate(t, svc, "Gecerli Form")

	_, err := svc.UpdateForm(ctx, created.ID, &models.FormUpdate{
		Definition: models.FormDefinition{"title": "Bos", "pages": []interface{}{}},
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), string(ErrFormInvalidInput)))
}

func TestUpdateFormNotFound(t *testing.T) {
	svc, _, _ := newTestFormService(t, nil)

	_, err := svc.UpdateForm(context.Background(), "yok", &models.FormUpdate{Description: strPtr("x")})
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestUpdateFormSlugValidation(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})
	ctx := context.Background()

	a := mustCreate(t, svc, "Form A")
	b := mustCreate(t, svc, "Form B")

	// Geçersiz biçim reddedilir.
	_, err := svc.UpdateForm(ctx, a.ID, &models.FormUpdate{URLSlug: strPtr("Büyük Harfli")})
	assert.ErrorIs(t, err, ErrFormSlugInvalid)

	// Başka formun slug'ı reddedilir.
	_, err = svc.UpdateForm(ctx, a.ID, &models.FormUpdate{URLSlug: strPtr(b.URLSlug)})
	assert.ErrorIs(t, err, ErrFormSlugTaken)

	// Kendi slug'ını tekrar göndermek serbest.
	_, err = svc.UpdateForm(ctx, a.ID, &models.FormUpdate{URLSlug: strPtr(a.URLSlug)})
	assert.NoError(t, err)

	// Boşta bir slug'a geçiş serbest.
	updated, err := svc.UpdateForm(ctx, a.ID, &models.FormUpdate{URLSlug: strPtr("yeni-slug")})
	require.NoError(t, err)
	assert.Equal(t, "yeni-slug", updated.URLSlug)
}

// --- Public slug sınırı ---

func TestGetFormBySlugVisibility(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})
	ctx := context.Background()

	created := mustCreate(t, svc, "Anket")

	// Internal form public uçtan servis edilmez.
	_, err := svc.GetFormBySlug(ctx, created.URLSlug)
	assert.ErrorIs(t, err, ErrFormNotPublic)

	// Yayınlanınca erişilir.
	_, err = svc.UpdateForm(ctx, created.ID, &models.FormUpdate{IsPublic: boolPtr(true)})
	require.NoError(t, err)
	got, err := svc.GetFormBySlug(ctx, created.URLSlug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Arşivlenen form isPublic=true kalsa bile servis edilmez.
	archived, err := svc.UpdateForm(ctx, created.ID, &models.FormUpdate{Status: strPtr("Archived")})
	require.NoError(t, err)
	assert.True(t, archived.IsPublic)
	_, err = svc.GetFormBySlug(ctx, created.URLSlug)
	assert.ErrorIs(t, err, ErrFormNotPublic)

	// Hiç olmayan slug NotFound.
	_, err = svc.GetFormBySlug(ctx, "hic-yok")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestToggleArchive(t *testing.T) {
	svc, _, _ := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})
	ctx := context.Background()

	created := mustCreate(t, svc, "Arsivlik")
	_, err := svc.UpdateForm(ctx, created.ID, &models.FormUpdate{IsPublic: boolPtr(true)})
	require.NoError(t, err)

	// Arşivle: isPublic bayrağı korunur.
	archived, err := svc.ToggleArchive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)
	assert.True(t, archived.IsPublic)

	// Arşivden çıkar: her zaman Internal'a düşer, görünürlük sıfırlanır.
	restored, err := svc.ToggleArchive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInternal, restored.Status)
	assert.False(t, restored.IsPublic)
}

func TestListFormsWithCounts(t *testing.T) {
	svc, _, subRepo := newTestFormService(t, &stubGenerator{def: singlePageDefinition("X")})
	ctx := context.Background()

	a := mustCreate(t, svc, "Eski Form")
	b := mustCreate(t, svc, "Yeni Form")

	require.NoError(t, subRepo.AppendCSV(ctx, b.ID, &models.SubmissionRecord{
		ID:          b.ID + "_1",
		SubmittedAt: "2026-01-01T00:00:00Z",
		Fields:      map[string]interface{}{"name": "Ana"},
	}))

	items, err := svc.ListForms(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	counts := map[string]int{}
	for _, it := range items {
		counts[it.ID] = it.SubmissionCount
	}
	assert.Equal(t, 1, counts[b.ID])
	assert.Equal(t, 0, counts[a.ID])
}
