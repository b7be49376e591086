package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"naform.link/configs"
	"naform.link/configs/configslog"
	"naform.link/models"

	"go.uber.org/zap"
)

// WebhookServiceError özel webhook servis hataları.
type WebhookServiceError string

func (e WebhookServiceError) Error() string { return string(e) }

const (
	ErrWebhookURLRequired   WebhookServiceError = "webhook adresi zorunludur"
	ErrWebhookURLInvalid    WebhookServiceError = "geçersiz webhook adresi"
	ErrWebhookPrivateAddr   WebhookServiceError = "özel IP adresleri ve localhost'a webhook gönderilemez"
	ErrWebhookBadScheme     WebhookServiceError = "sadece HTTP ve HTTPS protokolleri desteklenir"
	ErrWebhookHTTPSRequired WebhookServiceError = "production ortamında HTTPS zorunludur"
)

const webhookUserAgent = models.SubmissionSource + "/1.0"

// IWebhookService gönderim bildirimlerinin dış adrese iletilmesi için arayüz.
type IWebhookService interface {
	Validate(rawURL string) error
	Send(ctx context.Context, webhookURL string, payload *models.WebhookPayload) error
	Test(ctx context.Context, webhookURL string, testData map[string]interface{}) (int, error)
}

// WebhookService IWebhookService arayüzünü uygular.
// HTTP istemcisi başlangıçta bir kez kurulur ve süreç ömrü boyunca paylaşılır.
type WebhookService struct {
	cfg    *configs.Config
	client *http.Client
}

// NewWebhookService 10 saniye zaman aşımı ve en fazla 3 yönlendirme izleyen
// bir istemciyle yeni bir servis oluşturur.
func NewWebhookService(cfg *configs.Config) IWebhookService {
	return &WebhookService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("çok fazla yönlendirme (en fazla 3)")
				}
				return nil
			},
		},
	}
}

// privateHostPrefixes SSRF koruması için sözlüksel (lexical) kalıplar.
// Bu bir DNS çözümleme kontrolü DEĞİLDİR: özel adrese çözümlenen ama bu
// kalıplara uymayan bir hostname engellenmez (bilinen sınırlama).
var privateHostPrefixes = []string{
	"10.",
	"192.168.",
	"127.",
	"169.254.",
	"0.",
	"fc00:",
	"fe80:",
}

func isPrivateHost(host string) bool {
	if host == "localhost" || host == "0.0.0.0" || host == "::1" {
		return true
	}
	for _, prefix := range privateHostPrefixes {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	// 172.16.0.0/12: ikinci oktet 16-31 arası.
	if strings.HasPrefix(host, "172.") {
		parts := strings.SplitN(host, ".", 3)
		if len(parts) >= 2 {
			if octet, err := strconv.Atoi(parts[1]); err == nil && octet >= 16 && octet <= 31 {
				return true
			}
		}
	}
	return false
}

// Validate adresin mutlak bir HTTP(S) URL'i olduğunu ve hostname'in özel/loopback
// kalıplarına uymadığını kontrol eder. Production modunda HTTPS şarttır.
func (s *WebhookService) Validate(rawURL string) error {
	if rawURL == "" {
		return ErrWebhookURLRequired
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Hostname() == "" {
		return ErrWebhookURLInvalid
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrWebhookBadScheme
	}
	if s.cfg.IsProduction() && parsed.Scheme != "https" {
		return ErrWebhookHTTPSRequired
	}
	if isPrivateHost(strings.ToLower(parsed.Hostname())) {
		return ErrWebhookPrivateAddr
	}
	return nil
}

// Send zarfı verilen adrese POST eder. En fazla bir deneme yapılır; tekrar yok.
// Başarısızlık çağırana hata olarak döner, gönderim akışında loglanıp yutulur.
func (s *WebhookService) Send(ctx context.Context, webhookURL string, payload *models.WebhookPayload) error {
	if err := s.Validate(webhookURL); err != nil {
		return err
	}
	status, err := s.post(ctx, webhookURL, payload)
	if err != nil {
		return err
	}
	configslog.SLog.Infof("Webhook başarıyla gönderildi: form=%s durum=%d", payload.FormID, status)
	return nil
}

// Test doğrulama + gönderim yolunu senkron çalıştırır ve uzak durum kodunu döner.
// Sonucu çağırana açılan tek webhook yolu budur.
func (s *WebhookService) Test(ctx context.Context, webhookURL string, testData map[string]interface{}) (int, error) {
	if err := s.Validate(webhookURL); err != nil {
		return 0, err
	}
	if testData == nil {
		testData = map[string]interface{}{"message": "Test webhook from " + models.SubmissionSource}
	}
	payload := &models.WebhookTestPayload{
		Test:      true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      testData,
		Source:    models.SubmissionSource + "-Test",
	}
	return s.post(ctx, webhookURL, payload)
}

// post JSON gövdeyi gönderir, 2xx dışındaki durumları hata sayar.
func (s *WebhookService) post(ctx context.Context, webhookURL string, body interface{}) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", webhookUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		configslog.Log.Warn("Webhook isteği başarısız", zap.String("url", webhookURL), zap.Error(err))
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("webhook %d durum kodu döndürdü", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

var _ IWebhookService = (*WebhookService)(nil)
