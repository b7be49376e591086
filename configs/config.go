package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config uygulamanın ihtiyaç duyduğu tüm ortam ayarlarını tutar.
// main içinde bir kez oluşturulur ve bileşenlere referansla geçirilir;
// bileşenler os.Getenv gibi ortam değişkenlerine doğrudan erişmez.
type Config struct {
	Port    string
	AppEnv  string // "development" | "production"
	DataDir string // form ve gönderim dosyalarının kök dizini

	AdminUsername string
	AdminPassword string        // bcrypt hash ($2...) veya geliştirme için düz metin
	AuthSecret    string        // boşsa auth zorunluluğu tamamen devre dışı (geliştirme modu)
	TokenTTL      time.Duration // oturum token geçerlilik süresi

	AllowedOrigins string // CORS için virgülle ayrılmış origin listesi

	GeneratorAPIKey  string // boşsa form üretimi kullanılamaz
	GeneratorModel   string
	GeneratorBaseURL string

	MaxUploadBytes int // istek gövdesi ve dosya yükleme üst sınırı
}

// Load .env dosyasını (varsa) okur ve ortam değişkenlerinden Config oluşturur.
func Load() *Config {
	_ = godotenv.Load() // .env yoksa sorun değil, ortamdan devam edilir

	cfg := &Config{
		Port:    getEnv("PORT", "3001"),
		AppEnv:  getEnv("APP_ENV", "development"),
		DataDir: getEnv("DATA_DIR", "data"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AuthSecret:    os.Getenv("AUTH_TOKEN_SECRET"),
		TokenTTL:      time.Duration(cast.ToInt(getEnv("AUTH_TOKEN_TTL_HOURS", "24"))) * time.Hour,

		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		GeneratorAPIKey:  os.Getenv("OPENAI_API_KEY"),
		GeneratorModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		GeneratorBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		MaxUploadBytes: cast.ToInt(getEnv("MAX_UPLOAD_BYTES", "10485760")), // 10MB
	}
	return cfg
}

// IsProduction production modunda olup olmadığımızı döner.
// Webhook'larda HTTPS zorunluluğu ve hata detaylarının gizlenmesi buna bağlıdır.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsDevelopment geliştirme modunu döner (upstream hata detayları sadece bu modda sızar).
func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

// FormsDir form yapılandırma JSON dosyalarının tutulduğu dizin.
func (c *Config) FormsDir() string {
	return filepath.Join(c.DataDir, "forms")
}

// SubmissionsDir form başına gönderim alt dizinlerinin kökü.
func (c *Config) SubmissionsDir() string {
	return filepath.Join(c.DataDir, "submissions")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
