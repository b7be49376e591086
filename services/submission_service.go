package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"naform.link/configs/configslog"
	"naform.link/models"
	"naform.link/repositories"

	"go.uber.org/zap"
)

// SubmissionServiceError gönderim servis hataları.
type SubmissionServiceError string

func (e SubmissionServiceError) Error() string { return string(e) }

const (
	ErrSubmissionFormNotFound SubmissionServiceError = "gönderim yapılan form bulunamadı"
)

// SubmissionResult kabul edilen gönderimin çağırana dönen özeti.
type SubmissionResult struct {
	SubmissionID  string
	FilesUploaded int
}

// ISubmissionService tek bir gönderimi kalıcı kayda çeviren arayüz.
type ISubmissionService interface {
	Submit(ctx context.Context, formID string, fields map[string]interface{}, files map[string][]*multipart.FileHeader) (*SubmissionResult, error)
}

// SubmissionService ISubmissionService arayüzünü uygular.
// Akış: zenginleştir -> dosyaları kaydet -> CSV'ye ekle -> dokümanı yaz ->
// webhook'u ayrık görevde ateşle. Kayıt hataları loglanır ama yanıtı
// değiştirmez; gönderim kabul edildiği anda başarılı sayılır.
type SubmissionService struct {
	forms       repositories.IFormRepository
	submissions repositories.ISubmissionRepository
	webhooks    IWebhookService
}

// NewSubmissionService bağımlılıkları enjekte edilen yeni bir servis oluşturur.
func NewSubmissionService(forms repositories.IFormRepository, submissions repositories.ISubmissionRepository, webhooks IWebhookService) ISubmissionService {
	return &SubmissionService{
		forms:       forms,
		submissions: submissions,
		webhooks:    webhooks,
	}
}

// Submit gönderimi kaydeder ve yapılandırılmışsa webhook bildirimini tetikler.
// Webhook adresi istek gövdesinden değil, saklanan yapılandırmadan okunur.
// Dönen hata yalnızca formun hiç var olmaması durumudur.
func (s *SubmissionService) Submit(ctx context.Context, formID string, fields map[string]interface{}, files map[string][]*multipart.FileHeader) (*SubmissionResult, error) {
	cfg, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSubmissionFormNotFound
		}
		return nil, err
	}

	if fields == nil {
		fields = map[string]interface{}{}
	}

	// Dosyalar CSV'ye gömülmez; diske kaydedilir ve alan değeri olarak
	// tanımlayıcı nesnesi taşınır. Aynı alan adına birden çok dosya gelirse
	// sonuncusu kazanır.
	filesUploaded := 0
	for fieldName, headers := range files {
		for _, fh := range headers {
			desc, err := s.submissions.SaveUpload(ctx, formID, fh)
			if err != nil {
				configslog.Log.Error("Dosya kaydedilemedi",
					zap.String("formId", formID), zap.String("field", fieldName), zap.Error(err))
				continue
			}
			fields[fieldName] = desc
			filesUploaded++
		}
	}

	record := &models.SubmissionRecord{
		ID:          fmt.Sprintf("%s_%d", formID, time.Now().UnixMilli()),
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
		Fields:      fields,
	}

	if err := s.submissions.AppendCSV(ctx, formID, record); err != nil {
		configslog.Log.Error("CSV kaydı başarısız, gönderim yanıtı yine de başarılı dönecek",
			zap.String("formId", formID), zap.Error(err))
	}
	if err := s.submissions.WriteSnapshot(ctx, formID, cfg.FormDefinition, record); err != nil {
		configslog.Log.Error("Form doküman anlık görüntüsü yazılamadı",
			zap.String("formId", formID), zap.Error(err))
	}

	// Webhook yanıtı bekletmez: kayıt tamamlandıktan sonra ayrık görev olarak
	// gönderilir, sonucu çağırana yansımaz. En fazla bir deneme.
	if url := cfg.WebhookURLValue(); url != "" {
		payload := &models.WebhookPayload{
			FormID:       formID,
			SubmissionID: record.ID,
			SubmittedAt:  record.SubmittedAt,
			Data:         fields,
			Source:       models.SubmissionSource,
		}
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.webhooks.Send(sendCtx, url, payload); err != nil {
				configslog.Log.Warn("Webhook bildirimi başarısız",
					zap.String("formId", formID), zap.String("submissionId", record.ID), zap.Error(err))
			}
		}()
	}

	configslog.SLog.Infof("Gönderim kaydedildi: form=%s id=%s dosya=%d", formID, record.ID, filesUploaded)
	return &SubmissionResult{SubmissionID: record.ID, FilesUploaded: filesUploaded}, nil
}

var _ ISubmissionService = (*SubmissionService)(nil)
