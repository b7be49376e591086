package models

import (
	"errors"
)

// FormDefinition dış üreticiden gelen sayfa/element ağacıdır.
// Çekirdek bu ağacı veri olarak taşır; soru tiplerini modellemez.
// Sadece üst seviye şekil doğrulanır ve iki alan mutasyona uğrayabilir
// (completeText ile tek sayfalı formlarda progressBar alanları).
type FormDefinition map[string]interface{}

var (
	ErrDefinitionNoTitle    = errors.New("form tanımında başlık yok")
	ErrDefinitionNoPages    = errors.New("form tanımında sayfa listesi yok veya boş")
	ErrDefinitionBadPage    = errors.New("form tanımındaki bir sayfa ad veya element içermiyor")
	ErrDefinitionBadElement = errors.New("form tanımındaki bir element tip veya ad içermiyor")
)

// Validate üreticiden dönen ağacın zorunlu üst seviye şeklini kontrol eder:
// title, boş olmayan pages; her sayfada name + boş olmayan elements;
// her elementte type + name. Daha derine inilmez.
func (d FormDefinition) Validate() error {
	if s, ok := d["title"].(string); !ok || s == "" {
		return ErrDefinitionNoTitle
	}
	pages, ok := d["pages"].([]interface{})
	if !ok || len(pages) == 0 {
		return ErrDefinitionNoPages
	}
	for _, p := range pages {
		page, ok := p.(map[string]interface{})
		if !ok {
			return ErrDefinitionBadPage
		}
		if s, ok := page["name"].(string); !ok || s == "" {
			return ErrDefinitionBadPage
		}
		elements, ok := page["elements"].([]interface{})
		if !ok || len(elements) == 0 {
			return ErrDefinitionBadPage
		}
		for _, e := range elements {
			element, ok := e.(map[string]interface{})
			if !ok {
				return ErrDefinitionBadElement
			}
			if s, ok := element["type"].(string); !ok || s == "" {
				return ErrDefinitionBadElement
			}
			if s, ok := element["name"].(string); !ok || s == "" {
				return ErrDefinitionBadElement
			}
		}
	}
	return nil
}

// PageCount sayfa sayısını döner; şekil bozuksa 0.
func (d FormDefinition) PageCount() int {
	pages, ok := d["pages"].([]interface{})
	if !ok {
		return 0
	}
	return len(pages)
}

// Title başlığı döner; yoksa boş string.
func (d FormDefinition) Title() string {
	s, _ := d["title"].(string)
	return s
}

// Description üreticinin yazdığı açıklamayı döner; yoksa boş string.
func (d FormDefinition) Description() string {
	s, _ := d["description"].(string)
	return s
}

// SetCompleteText gönder butonunun yazısını değiştirir.
// Çekirdeğin tanım ağacında değiştirebildiği tek içerik alanı budur.
func (d FormDefinition) SetCompleteText(text string) {
	d["completeText"] = text
}

// NormalizeSinglePage tek sayfalı üretilmiş formlarda ilerleme çubuğunu kapatır:
// showProgressBar false yapılır, progressBarType tamamen kaldırılır.
func (d FormDefinition) NormalizeSinglePage() {
	if d.PageCount() != 1 {
		return
	}
	d["showProgressBar"] = false
	delete(d, "progressBarType")
}
