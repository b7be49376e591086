package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"naform.link/models"
	"naform.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWebhookService gönderilen zarfları yakalar; ağ erişimi yoktur.
type stubWebhookService struct {
	mu   sync.Mutex
	sent chan *models.WebhookPayload
}

func newStubWebhookService() *stubWebhookService {
	return &stubWebhookService{sent: make(chan *models.WebhookPayload, 4)}
}

func (s *stubWebhookService) Validate(rawURL string) error { return nil }

func (s *stubWebhookService) Send(ctx context.Context, webhookURL string, payload *models.WebhookPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent <- payload
	return nil
}

func (s *stubWebhookService) Test(ctx context.Context, webhookURL string, testData map[string]interface{}) (int, error) {
	return 200, nil
}

var _ IWebhookService = (*stubWebhookService)(nil)

func newTestSubmissionService(t *testing.T, webhookURL string) (ISubmissionService, repositories.ISubmissionRepository, *stubWebhookService, string) {
	t.Helper()

	formRepo := repositories.NewFormRepository(t.TempDir())
	subRepo := repositories.NewSubmissionRepository(t.TempDir())
	hooks := newStubWebhookService()

	var hookPtr *string
	if webhookURL != "" {
		hookPtr = &webhookURL
	}
	cfg := &models.FormConfig{
		ID:         "client-intake",
		Name:       "Client Intake",
		URLSlug:    "client-intake",
		WebhookURL: hookPtr,
		Status:     models.StatusPublic,
		IsPublic:   true,
		Tags:       []string{},
		FormDefinition: models.FormDefinition{
			"title": "Client Intake",
			"pages": []interface{}{
				map[string]interface{}{
					"name": "page1",
					"elements": []interface{}{
						map[string]interface{}{"type": "text", "name": "name", "title": "Name"},
					},
				},
			},
		},
		CreatedAt: "2026-01-01T00:00:00Z",
	}
	require.NoError(t, formRepo.Create(context.Background(), cfg))

	return NewSubmissionService(formRepo, subRepo, hooks), subRepo, hooks, cfg.ID
}

func TestSubmitUnknownFormIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestSubmissionService(t, "")

	_, err := svc.Submit(context.Background(), "boyle-bir-form-yok", map[string]interface{}{"name": "Ana"}, nil)
	assert.ErrorIs(t, err, ErrSubmissionFormNotFound)
}

func TestSubmitRecordsRow(t *testing.T) {
	svc, subRepo, _, formID := newTestSubmissionService(t, "")
	ctx := context.Background()

	res, err := svc.Submit(ctx, formID, map[string]interface{}{"name": "Ana"}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.SubmissionID, formID+"_"))
	assert.Equal(t, 0, res.FilesUploaded)

	count, err := subRepo.CountRows(ctx, formID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := subRepo.ReadCSV(ctx, formID)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Submission Id","Submitted At","Name"`, lines[0])
	assert.True(t, strings.HasSuffix(lines[1], `,"Ana"`))
}

func TestSubmitGrowsCSVWithoutRewritingHistory(t *testing.T) {
	svc, subRepo, _, formID := newTestSubmissionService(t, "")
	ctx := context.Background()

	_, err := svc.Submit(ctx, formID, map[string]interface{}{"name": "Ana"}, nil)
	require.NoError(t, err)

	before, err := subRepo.ReadCSV(ctx, formID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, formID, map[string]interface{}{"name": "Deniz"}, nil)
	require.NoError(t, err)

	after, err := subRepo.ReadCSV(ctx, formID)
	require.NoError(t, err)

	// Önceki içerik bayt bayt korunur; yeni satır sadece sona eklenir.
	assert.Equal(t, string(before), string(after[:len(before)]))

	count, err := subRepo.CountRows(ctx, formID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	last, err := subRepo.LastRow(ctx, formID)
	require.NoError(t, err)
	assert.Contains(t, last, `"Deniz"`)
}

func TestSubmitFiresWebhookAfterRecording(t *testing.T) {
	svc, subRepo, hooks, formID := newTestSubmissionService(t, "https://example.com/hook")
	ctx := context.Background()

	res, err := svc.Submit(ctx, formID, map[string]interface{}{"name": "Ana"}, nil)
	require.NoError(t, err)

	select {
	case payload := <-hooks.sent:
		assert.Equal(t, formID, payload.FormID)
		assert.Equal(t, res.SubmissionID, payload.SubmissionID)
		assert.Equal(t, models.SubmissionSource, payload.Source)
		assert.Equal(t, "Ana", payload.Data["name"])
	case <-time.After(2 * time.Second):
		t.Fatal("webhook zarfı gönderilmedi")
	}

	// Webhook akışı kaydı etkilemez.
	count, err := subRepo.CountRows(ctx, formID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitWithoutWebhookStaysSilent(t *testing.T) {
	svc, _, hooks, formID := newTestSubmissionService(t, "")

	_, err := svc.Submit(context.Background(), formID, map[string]interface{}{"name": "Ana"}, nil)
	require.NoError(t, err)

	select {
	case <-hooks.sent:
		t.Fatal("webhook adresi yokken gönderim yapılmamalı")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubmitNilFieldsStillRecords(t *testing.T) {
	svc, subRepo, _, formID := newTestSubmissionService(t, "")
	ctx := context.Background()

	_, err := svc.Submit(ctx, formID, nil, nil)
	require.NoError(t, err)

	data, err := subRepo.ReadCSV(ctx, formID)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Submission Id","Submitted At"`, lines[0])
}
