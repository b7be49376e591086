package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"naform.link/configs/configslog"
	"naform.link/models"
	"naform.link/pkg/slugify"

	"go.uber.org/zap"
)

// ErrNotFound istenen kaydın arkasında dosya olmadığını belirten sentinel hata.
var ErrNotFound = errors.New("kayıt bulunamadı")

// IFormRepository form yapılandırma deposu için arayüz.
// Depo her form için tek bir JSON dosyası tutar; dosya adı formun kimliğidir.
type IFormRepository interface {
	List(ctx context.Context) ([]models.FormConfig, error)
	FindByID(ctx context.Context, id string) (*models.FormConfig, error)
	FindBySlug(ctx context.Context, slug string) (*models.FormConfig, error)
	Create(ctx context.Context, cfg *models.FormConfig) error
	Save(ctx context.Context, cfg *models.FormConfig) error
}

// FormRepository IFormRepository arayüzünü düz bir dizin üzerinde uygular.
// Kilitleme yok: aynı kimliğe eşzamanlı yazanlardan sonuncusu kazanır
// (tek yönetici varsayımı, bilinen sınırlama).
type FormRepository struct {
	dir string
}

// NewFormRepository verilen dizini kullanan yeni bir depo örneği oluşturur.
func NewFormRepository(dir string) IFormRepository {
	return &FormRepository{dir: dir}
}

// path kimliği dosya yoluna çevirir. Kimlik slug-güvenli olduğu sürece
// path traversal mümkün değildir; çağıran doğrulamayı yapmış olmalıdır.
func (r *FormRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

// List dizindeki tüm geçerli form yapılandırmalarını döner.
// Parse edilemeyen dosya uyarı loguyla atlanır; dizin hiç yoksa
// "henüz başlatılmamış" kabul edilir ve boş küme döner.
func (r *FormRepository) List(ctx context.Context) ([]models.FormConfig, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.FormConfig{}, nil
		}
		configslog.Log.Error("FormRepository.List: dizin okunamadı", zap.String("dir", r.dir), zap.Error(err))
		return nil, err
	}

	forms := make([]models.FormConfig, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			configslog.SLog.Warnf("Form dosyası okunamadı, atlanıyor: %s (%v)", entry.Name(), err)
			continue
		}
		var cfg models.FormConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			configslog.SLog.Warnf("Form dosyası parse edilemedi, atlanıyor: %s (%v)", entry.Name(), err)
			continue
		}
		cfg.Normalize()
		forms = append(forms, cfg)
	}
	return forms, nil
}

// FindByID kimliğe karşılık gelen yapılandırmayı döner.
func (r *FormRepository) FindByID(ctx context.Context, id string) (*models.FormConfig, error) {
	if !slugify.IsValid(id) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FormRepository.FindByID: dosya okunamadı", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	var cfg models.FormConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		configslog.Log.Error("FormRepository.FindByID: dosya parse edilemedi", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// FindBySlug urlSlug eşleşen ilk formu döner (ilk eşleşme kazanır).
// Görünürlük kuralı burada uygulanmaz; servis katmanının işidir.
func (r *FormRepository) FindBySlug(ctx context.Context, slug string) (*models.FormConfig, error) {
	forms, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		if forms[i].URLSlug == slug {
			return &forms[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create yeni bir form dosyası yazar. Kimlik benzersizliğini çağıran garanti eder
// (ad -> kimlik türetimi sınırda yapılır); var olan dosya üzerine yazılır.
func (r *FormRepository) Create(ctx context.Context, cfg *models.FormConfig) error {
	return r.write(cfg)
}

// Save mevcut bir formun dosyasını tam olarak üzerine yazar (kısmi yazma yok).
func (r *FormRepository) Save(ctx context.Context, cfg *models.FormConfig) error {
	return r.write(cfg)
}

func (r *FormRepository) write(cfg *models.FormConfig) error {
	if cfg == nil || !slugify.IsValid(cfg.ID) {
		return errors.New("geçersiz form kimliği ile yazma denendi")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		configslog.Log.Error("FormRepository.write: dizin oluşturulamadı", zap.String("dir", r.dir), zap.Error(err))
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path(cfg.ID), data, 0o644); err != nil {
		configslog.Log.Error("FormRepository.write: dosya yazılamadı", zap.String("id", cfg.ID), zap.Error(err))
		return err
	}
	return nil
}

var _ IFormRepository = (*FormRepository)(nil)
