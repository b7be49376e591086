package models

import "encoding/json"

// FormStatus bir formun yaşam döngüsü durumudur.
type FormStatus string

const (
	StatusInternal FormStatus = "Internal"
	StatusPublic   FormStatus = "Public"
	StatusArchived FormStatus = "Archived"
)

// IsValid durumun üç elemanlı enum içinde olup olmadığını kontrol eder.
// Geçersiz değerler HTTP sınırında reddedilir, durum makinesine hiç ulaşmaz.
func (s FormStatus) IsValid() bool {
	switch s {
	case StatusInternal, StatusPublic, StatusArchived:
		return true
	}
	return false
}

// FormSettings form başına tavsiye niteliğindeki bayraklar.
// Çekirdek mantık bunları sert kapı olarak uygulamaz.
type FormSettings struct {
	EnableWebhook     bool `json:"enableWebhook"`
	EnableFileUploads bool `json:"enableFileUploads"`
	EnableCSVExport   bool `json:"enableCSVExport"`
}

// FormConfig tek bir formun diskteki JSON temsilidir.
// id değişmezdir, oluşturma anında görünen addan türetilir ve dosya adı olarak kullanılır.
type FormConfig struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URLSlug     string   `json:"urlSlug"`
	WebhookURL  *string  `json:"webhookUrl"`
	Tags        []string `json:"tags"`

	Status   FormStatus `json:"status"`
	IsPublic bool       `json:"isPublic"`

	FormDefinition FormDefinition `json:"formDefinition"`

	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
	GeneratedBy string       `json:"generatedBy"`
	Settings    FormSettings `json:"settings"`
}

// Normalize eski dosyalardan gelen tarihî durum adlarını bugünkü enum'a çevirir.
// Published -> Public, Draft -> Internal; boş durum Internal kabul edilir.
func (f *FormConfig) Normalize() {
	switch string(f.Status) {
	case "Published":
		f.Status = StatusPublic
	case "Draft", "":
		f.Status = StatusInternal
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
}

// WebhookURLValue nil güvenli webhook adresi okuma.
func (f *FormConfig) WebhookURLValue() string {
	if f.WebhookURL == nil {
		return ""
	}
	return *f.WebhookURL
}

// FormListItem liste uç noktasının döndürdüğü, gönderim sayısı ile
// zenginleştirilmiş form kaydıdır. Diske yazılmaz.
type FormListItem struct {
	FormConfig
	SubmissionCount int `json:"submissionCount"`
}

// FormUpdate PATCH isteğinin gövdesidir. Pointer alanlar "gönderilmedi" ile
// "null/boş gönderildi" ayrımını korur; sadece gönderilen alanlar birleştirilir.
// Not: pano istemcisi form adını "title" anahtarıyla gönderir.
type FormUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URLSlug     *string `json:"urlSlug"`
	// webhookUrl için açık null ("webhookUrl": null) adresi temizler;
	// alanın hiç gönderilmemesi mevcut değeri korur. RawMessage bu ayrımı taşır.
	WebhookURL   json.RawMessage `json:"webhookUrl"`
	Tags         *[]string       `json:"tags"`
	IsPublic     *bool           `json:"isPublic"`
	Status       *string         `json:"status"`
	CompleteText *string         `json:"completeText"`
	Definition   FormDefinition  `json:"formDefinition"`
}
