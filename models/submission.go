package models

// SubmissionSource webhook zarfı ve dokümanlarda kullanılan sabit kaynak etiketi.
const SubmissionSource = "NAFormDashboard"

// SubmissionRecord kabul edilmiş tek bir gönderimdir. Yakalama anında geçicidir,
// CSV'ye eklendiği anda kalıcıdır; hiçbir zaman güncellenmez veya silinmez.
type SubmissionRecord struct {
	ID          string // "{formId}_{unixMillis}"
	SubmittedAt string // RFC3339
	Fields      map[string]interface{}
}

// FileDescriptor CSV satırında dosyanın kendisi yerine taşınan tanımlayıcıdır.
type FileDescriptor struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// WebhookPayload başarılı bir gönderimde dış adrese POST edilen JSON zarfı.
type WebhookPayload struct {
	FormID       string                 `json:"formId"`
	SubmissionID string                 `json:"submissionId"`
	SubmittedAt  string                 `json:"submittedAt"`
	Data         map[string]interface{} `json:"data"`
	Source       string                 `json:"source"`
}

// WebhookTestPayload yöneticinin "webhook testi" aksiyonunda gönderilen zarf.
type WebhookTestPayload struct {
	Test      bool                   `json:"test"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Source    string                 `json:"source"`
}
