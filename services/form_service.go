package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"naform.link/configs/configslog"
	"naform.link/models"
	"naform.link/pkg/slugify"
	"naform.link/repositories"

	"go.uber.org/zap"
)

// FormServiceError özel form servis hataları.
type FormServiceError string

func (e FormServiceError) Error() string { return string(e) }

const (
	ErrFormNotFound         FormServiceError = "form bulunamadı"
	ErrFormNotPublic        FormServiceError = "form herkese açık değil"
	ErrFormInvalidInput     FormServiceError = "geçersiz girdi verisi"
	ErrFormNameRequired     FormServiceError = "form adı ve açıklaması zorunludur"
	ErrFormSlugInvalid      FormServiceError = "slug sadece küçük harf, rakam ve tire içerebilir"
	ErrFormSlugTaken        FormServiceError = "slug başka bir form tarafından kullanılıyor"
	ErrGeneratorUnavailable FormServiceError = "form üretimi şu anda kullanılamıyor, üretici API anahtarı yapılandırılmamış"
)

// IFormService form yaşam döngüsü işlemleri için arayüz.
type IFormService interface {
	CreateFromPrompt(ctx context.Context, name, description, webhookURL string) (*models.FormConfig, error)
	ListForms(ctx context.Context) ([]models.FormListItem, error)
	GetForm(ctx context.Context, id string) (*models.FormConfig, error)
	GetFormBySlug(ctx context.Context, slug string) (*models.FormConfig, error)
	UpdateForm(ctx context.Context, id string, upd *models.FormUpdate) (*models.FormConfig, error)
	ToggleArchive(ctx context.Context, id string) (*models.FormConfig, error)
}

// FormService IFormService arayüzünü uygular. Durum/görünürlük durum makinesi
// ve kısmi güncelleme birleştirmesi burada yaşar; kalıcılık depoya bırakılır.
type FormService struct {
	repo        repositories.IFormRepository
	submissions repositories.ISubmissionRepository
	generator   ISchemaGenerator // nil ise form üretimi devre dışı
}

// NewFormService bağımlılıkları başlangıçta enjekte edilen yeni bir servis oluşturur.
func NewFormService(repo repositories.IFormRepository, submissions repositories.ISubmissionRepository, generator ISchemaGenerator) IFormService {
	return &FormService{
		repo:        repo,
		submissions: submissions,
		generator:   generator,
	}
}

// CreateFromPrompt dış üreticiden şema alıp yeni bir form yapılandırması oluşturur.
// Kimlik görünen addan bir kez türetilir ve değişmezdir; başlangıç durumu Internal.
func (s *FormService) CreateFromPrompt(ctx context.Context, name, description, webhookURL string) (*models.FormConfig, error) {
	if name == "" || description == "" {
		return nil, ErrFormNameRequired
	}
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}

	def, err := s.generator.Generate(ctx, name, description)
	if err != nil {
		return nil, err
	}

	// Tek sayfalı formlarda ilerleme çubuğu alanları temizlenir.
	def.NormalizeSinglePage()

	id := slugify.Derive(name)
	if id == "" {
		return nil, fmt.Errorf("%w: addan kullanılabilir bir kimlik türetilemedi", ErrFormInvalidInput)
	}

	finalDescription := def.Description()
	if finalDescription == "" {
		finalDescription = description
	}

	var webhookPtr *string
	if webhookURL != "" {
		webhookPtr = &webhookURL
	}

	cfg := &models.FormConfig{
		ID:             id,
		Name:           name,
		Description:    finalDescription,
		URLSlug:        id,
		WebhookURL:     webhookPtr,
		Tags:           []string{},
		Status:         models.StatusInternal,
		IsPublic:       false,
		FormDefinition: def,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		GeneratedBy:    s.generator.Name(),
		Settings: models.FormSettings{
			EnableWebhook:     webhookURL != "",
			EnableFileUploads: true,
			EnableCSVExport:   true,
		},
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	configslog.SLog.Infof("Form başarıyla oluşturuldu: id=%s ad=%q üretici=%s", cfg.ID, cfg.Name, cfg.GeneratedBy)
	return cfg, nil
}

// ListForms tüm geçerli formları gönderim sayılarıyla birlikte, oluşturulma
// tarihine göre en yeniden eskiye sıralı döner. Tek tek bozuk dosyalar depo
// katmanında atlanır; sayım hatası formu listeden düşürmez.
func (s *FormService) ListForms(ctx context.Context) ([]models.FormListItem, error) {
	forms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.FormListItem, 0, len(forms))
	for _, cfg := range forms {
		count, err := s.submissions.CountRows(ctx, cfg.ID)
		if err != nil {
			configslog.SLog.Warnf("Gönderim sayısı okunamadı: form=%s (%v)", cfg.ID, err)
			count = 0
		}
		items = append(items, models.FormListItem{FormConfig: cfg, SubmissionCount: count})
	}

	sort.Slice(items, func(i, j int) bool {
		return parseCreatedAt(items[i].CreatedAt).After(parseCreatedAt(items[j].CreatedAt))
	})
	return items, nil
}

// GetForm kimliğe göre tek bir formu döner.
func (s *FormService) GetForm(ctx context.Context, id string) (*models.FormConfig, error) {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// GetFormBySlug public servis sınırıdır: slug eşleşen ilk formu döner, ancak
// yalnızca herkese açıksa. Arşivlenmiş bir form isPublic bayrağı ne olursa
// olsun asla public servis edilmez; bayrak arşivde saklanır ama kapı burada kapalıdır.
func (s *FormService) GetFormBySlug(ctx context.Context, slug string) (*models.FormConfig, error) {
	if slug == "" {
		return nil, ErrFormNotFound
	}
	cfg, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if cfg.Status == models.StatusArchived || !cfg.IsPublic {
		return nil, ErrFormNotPublic
	}
	return cfg, nil
}

// UpdateForm kısmi güncellemeyi uygular (PATCH semantiği): sadece gönderilen
// tanınan alanlar birleştirilir, durum/görünürlük kuralları çalıştırılır ve
// updatedAt damgalanır. Oku-birleştir-yaz; kilitleme yok, son yazan kazanır.
func (s *FormService) UpdateForm(ctx context.Context, id string, upd *models.FormUpdate) (*models.FormConfig, error) {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	if upd.Title != nil && *upd.Title != "" {
		cfg.Name = *upd.Title
	}
	if upd.Description != nil {
		cfg.Description = *upd.Description
	}
	if upd.URLSlug != nil {
		if err := s.validateSlugChange(ctx, id, *upd.URLSlug); err != nil {
			return nil, err
		}
		cfg.URLSlug = *upd.URLSlug
	}
	if len(upd.WebhookURL) > 0 {
		// Açık null adresi temizler, string yeni adresi atar.
		if string(upd.WebhookURL) == "null" {
			cfg.WebhookURL = nil
			cfg.Settings.EnableWebhook = false
		} else {
			var u string
			if err := json.Unmarshal(upd.WebhookURL, &u); err != nil {
				return nil, fmt.Errorf("%w: webhookUrl string olmalı", ErrFormInvalidInput)
			}
			cfg.WebhookURL = &u
			cfg.Settings.EnableWebhook = u != ""
		}
	}
	if upd.Tags != nil {
		cfg.Tags = *upd.Tags
	}
	if upd.Definition != nil {
		if err := upd.Definition.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormInvalidInput, err)
		}
		cfg.FormDefinition = upd.Definition
	}

	applyLifecycle(cfg, upd)

	if upd.CompleteText != nil && *upd.CompleteText != "" && cfg.FormDefinition != nil {
		cfg.FormDefinition.SetCompleteText(*upd.CompleteText)
	}

	cfg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	configslog.Log.Info("Form güncellendi",
		zap.String("id", cfg.ID),
		zap.String("status", string(cfg.Status)),
		zap.Bool("isPublic", cfg.IsPublic))
	return cfg, nil
}

// applyLifecycle durum/görünürlük durum makinesini çalıştırır:
//   - isPublic=true  -> status=Public
//   - isPublic=false -> status=Internal (Archived ise durum korunur)
//   - status=Public   -> isPublic=true
//   - status=Internal -> isPublic=false
//   - status=Archived -> isPublic'e dokunulmaz
//
// İkisi birden gönderilirse önce isPublic, sonra status uygulanır; açık status kazanır.
func applyLifecycle(cfg *models.FormConfig, upd *models.FormUpdate) {
	if upd.IsPublic != nil {
		cfg.IsPublic = *upd.IsPublic
		if *upd.IsPublic {
			cfg.Status = models.StatusPublic
		} else if cfg.Status != models.StatusArchived {
			cfg.Status = models.StatusInternal
		}
	}
	if upd.Status != nil {
		status := models.FormStatus(*upd.Status)
		cfg.Status = status
		switch status {
		case models.StatusPublic:
			cfg.IsPublic = true
		case models.StatusInternal:
			cfg.IsPublic = false
		case models.StatusArchived:
			// isPublic olduğu gibi kalır; servis sınırı arşivli formu zaten sunmaz.
		}
	}
}

// ToggleArchive yönetici aksiyonu: Archived <-> Internal arasında geçiş yapar.
// Arşivden çıkan form her zaman Internal'a düşer; public görünürlük ayrı bir
// adımla tekrar verilmelidir.
func (s *FormService) ToggleArchive(ctx context.Context, id string) (*models.FormConfig, error) {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	next := string(models.StatusArchived)
	if cfg.Status == models.StatusArchived {
		next = string(models.StatusInternal)
	}
	return s.UpdateForm(ctx, id, &models.FormUpdate{Status: &next})
}

// validateSlugChange slug biçimini ve başka bir formla çakışmadığını kontrol eder.
// Okuma tarafında ilk eşleşme kazandığından, çakışan slug sessizce maskelenmek
// yerine yazma anında reddedilir.
func (s *FormService) validateSlugChange(ctx context.Context, id, slug string) error {
	if !slugify.IsValid(slug) {
		return ErrFormSlugInvalid
	}
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != id {
		configslog.SLog.Warnf("Slug çakışması reddedildi: slug=%s mevcut=%s istenen=%s", slug, existing.ID, id)
		return ErrFormSlugTaken
	}
	return nil
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ IFormService = (*FormService)(nil)
