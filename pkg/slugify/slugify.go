package slugify

import (
	"regexp"
	"strings"
)

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-+`)
	validSlug       = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Derive görünen addan slug-güvenli, deterministik bir kimlik türetir:
// küçük harf, sadece alfanumerik+tire, boşluklar tireye, ardışık tireler teke,
// baştaki/sondaki tireler atılır. Aynı ad her zaman aynı kimliği üretir.
func Derive(name string) string {
	s := strings.ToLower(name)
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// IsValid bir değerin slug/kimlik olarak kullanılabilir olup olmadığını söyler.
// Dosya adı olarak kullanılan kimlikler için path traversal koruması da budur:
// nokta, eğik çizgi ve diğer tüm özel karakterler reddedilir.
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}
