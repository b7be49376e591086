package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"naform.link/configs/configslog"
	"naform.link/models"

	"go.uber.org/zap"
)

// ISubmissionRepository gönderim kayıtlarının kalıcı katmanı için arayüz.
// Her formun kendi alt dizini vardır: responses.csv, form-structure.md ve uploads/.
// CSV sadece eklenir; geçmiş satırlar asla yeniden yazılmaz.
type ISubmissionRepository interface {
	AppendCSV(ctx context.Context, formID string, record *models.SubmissionRecord) error
	SaveUpload(ctx context.Context, formID string, file *multipart.FileHeader) (*models.FileDescriptor, error)
	WriteSnapshot(ctx context.Context, formID string, def models.FormDefinition, record *models.SubmissionRecord) error
	CountRows(ctx context.Context, formID string) (int, error)
	LastRow(ctx context.Context, formID string) (string, error)
	ReadCSV(ctx context.Context, formID string) ([]byte, error)
}

// SubmissionRepository ISubmissionRepository arayüzünü dosya sistemi üzerinde uygular.
type SubmissionRepository struct {
	root string // gönderim kök dizini; altında form başına bir klasör
}

// NewSubmissionRepository verilen kök dizini kullanan yeni bir depo oluşturur.
func NewSubmissionRepository(root string) ISubmissionRepository {
	return &SubmissionRepository{root: root}
}

func (r *SubmissionRepository) formDir(formID string) string {
	return filepath.Join(r.root, formID)
}

func (r *SubmissionRepository) csvPath(formID string) string {
	return filepath.Join(r.formDir(formID), "responses.csv")
}

// columnOrder kayıt alanlarının deterministik sütun sırası:
// önce submission_id ve submitted_at, sonra kalan alan adları alfabetik.
// map üzerinde güvenilir bir geliş sırası olmadığından kararlı bir sıra şarttır;
// başlık ilk kayıtta donar ve aynı sıralama her satırda tekrar üretilir.
func columnOrder(fields map[string]interface{}) []string {
	rest := make([]string, 0, len(fields))
	for k := range fields {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append([]string{"submission_id", "submitted_at"}, rest...)
}

// humanize CSV başlığı için alan adını okunur hale getirir:
// alt çizgiler boşluğa, her kelimenin ilk harfi büyüğe ("submitted_at" -> "Submitted At").
func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	out := []rune(s)
	prevIsWord := false
	for i, r := range out {
		isWord := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if isWord && !prevIsWord && r >= 'a' && r <= 'z' {
			out[i] = r - 'a' + 'A'
		}
		prevIsWord = isWord
	}
	return string(out)
}

// quoteField her alanı çift tırnak içine alır, içteki tırnakları ikiler.
// encoding/csv sadece gerektiğinde tırnaklar; burada biçim sabittir.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// fieldValue bir alan değerini CSV hücresine çevirir:
// skalarlar olduğu gibi, nesne ve diziler JSON string olarak yazılır.
func fieldValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return fmt.Sprintf("%v", val)
	case float64, float32, int, int64, int32:
		return fmt.Sprintf("%v", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// AppendCSV kaydı formun responses.csv dosyasına tek satır olarak ekler.
// Dosya yoksa başlık satırı ilk kaydın alan kümesinden türetilir ve ondan
// sonra sabit kalır; farklı alan kümesiyle gelen sonraki kayıtlar yine eklenir
// (şema kayması bilinen sınırlamadır). Satır tek Write çağrısıyla yazılır.
func (r *SubmissionRepository) AppendCSV(ctx context.Context, formID string, record *models.SubmissionRecord) error {
	dir := r.formDir(formID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		configslog.Log.Error("SubmissionRepository.AppendCSV: dizin oluşturulamadı",
			zap.String("formId", formID), zap.Error(err))
		return err
	}

	path := r.csvPath(formID)
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		configslog.Log.Error("SubmissionRepository.AppendCSV: dosya açılamadı",
			zap.String("formId", formID), zap.Error(err))
		return err
	}
	defer f.Close()

	cols := columnOrder(record.Fields)

	var b strings.Builder
	if isNew {
		headers := make([]string, len(cols))
		for i, c := range cols {
			headers[i] = quoteField(humanize(c))
		}
		b.WriteString(strings.Join(headers, ","))
		b.WriteString("\n")
	}

	row := make([]string, len(cols))
	for i, c := range cols {
		switch c {
		case "submission_id":
			row[i] = quoteField(record.ID)
		case "submitted_at":
			row[i] = quoteField(record.SubmittedAt)
		default:
			row[i] = quoteField(fieldValue(record.Fields[c]))
		}
	}
	b.WriteString(strings.Join(row, ","))
	b.WriteString("\n")

	// Başlık+satır tek yazma çağrısıyla gider; eşzamanlı eklemelerde satır
	// bütünlüğü O_APPEND semantiğine dayanır.
	if _, err := f.Write([]byte(b.String())); err != nil {
		configslog.Log.Error("SubmissionRepository.AppendCSV: satır yazılamadı",
			zap.String("formId", formID), zap.Error(err))
		return err
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SaveUpload yüklenen dosyayı formun uploads/ dizinine, zaman damgası önekli ve
// temizlenmiş bir adla kaydeder; CSV'ye yazılacak tanımlayıcıyı döner.
func (r *SubmissionRepository) SaveUpload(ctx context.Context, formID string, file *multipart.FileHeader) (*models.FileDescriptor, error) {
	uploadsDir := filepath.Join(r.formDir(formID), "uploads")
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, err
	}

	timestamp := strings.NewReplacer(":", "-", ".", "-").
		Replace(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	sanitized := unsafeFilenameChars.ReplaceAllString(file.Filename, "_")
	storedName := timestamp + "_" + sanitized
	storedPath := filepath.Join(uploadsDir, storedName)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &models.FileDescriptor{
		Filename:     storedName,
		OriginalName: file.Filename,
		Mimetype:     file.Header.Get("Content-Type"),
		Size:         file.Size,
		Path:         storedPath,
	}, nil
}

// WriteSnapshot form yapısını ve son gönderimi içeren form-structure.md
// dosyasını yeniden üretir. İnsan okuması içindir, her gönderimde üzerine yazılır.
func (r *SubmissionRepository) WriteSnapshot(ctx context.Context, formID string, def models.FormDefinition, record *models.SubmissionRecord) error {
	dir := r.formDir(formID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var b strings.Builder

	title := def.Title()
	if title == "" {
		title = formID
	}
	b.WriteString("# " + title + "\n\n")

	description := def.Description()
	if description == "" {
		description = "No description provided"
	}
	b.WriteString(description + "\n\n")

	b.WriteString("## Form Structure\n\n")
	if pages, ok := def["pages"].([]interface{}); ok {
		for _, p := range pages {
			page, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			b.WriteString("### " + stringOr(page, "title", stringOr(page, "name", "")) + "\n\n")
			elements, _ := page["elements"].([]interface{})
			for _, e := range elements {
				element, ok := e.(map[string]interface{})
				if !ok {
					continue
				}
				b.WriteString(fmt.Sprintf("- **%s** (%s)\n",
					stringOr(element, "title", stringOr(element, "name", "")),
					stringOr(element, "type", "")))
				if required, _ := element["isRequired"].(bool); required {
					b.WriteString("  *(Required)*\n")
				}
				if placeholder := stringOr(element, "placeholder", ""); placeholder != "" {
					b.WriteString(fmt.Sprintf("  Placeholder: %q\n", placeholder))
				}
				if choices, ok := element["choices"].([]interface{}); ok && len(choices) > 0 {
					parts := make([]string, 0, len(choices))
					for _, c := range choices {
						parts = append(parts, fmt.Sprintf("%v", c))
					}
					b.WriteString("  Options: " + strings.Join(parts, ", ") + "\n")
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Latest Submission\n\n")
	b.WriteString("**Submitted:** " + record.SubmittedAt + "\n\n")
	b.WriteString("### Responses\n\n")
	for _, key := range columnOrder(record.Fields)[2:] {
		b.WriteString(fmt.Sprintf("- **%s:** %s\n", key, fieldValue(record.Fields[key])))
	}
	b.WriteString("\n---\n*Generated automatically by " + models.SubmissionSource + "*\n")

	return os.WriteFile(filepath.Join(dir, "form-structure.md"), []byte(b.String()), 0o644)
}

// CountRows CSV'deki veri satırı sayısını döner (başlık hariç). Dosya yoksa 0.
func (r *SubmissionRepository) CountRows(ctx context.Context, formID string) (int, error) {
	lines, err := r.dataLines(formID)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(lines) <= 1 {
		return 0, nil
	}
	return len(lines) - 1, nil
}

// LastRow en son eklenen veri satırını döner; hiç gönderim yoksa boş string.
func (r *SubmissionRepository) LastRow(ctx context.Context, formID string) (string, error) {
	lines, err := r.dataLines(formID)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if len(lines) <= 1 {
		return "", nil
	}
	return lines[len(lines)-1], nil
}

// ReadCSV ham CSV içeriğini döner; dosya yoksa ErrNotFound.
func (r *SubmissionRepository) ReadCSV(ctx context.Context, formID string) ([]byte, error) {
	data, err := os.ReadFile(r.csvPath(formID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *SubmissionRepository) dataLines(formID string) ([]string, error) {
	data, err := os.ReadFile(r.csvPath(formID))
	if err != nil {
		return nil, err
	}
	all := strings.Split(string(data), "\n")
	lines := make([]string, 0, len(all))
	for _, l := range all {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

func stringOr(m map[string]interface{}, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

var _ ISubmissionRepository = (*SubmissionRepository)(nil)
