package authtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("geçersiz oturum tokenı")
	ErrExpiredToken = errors.New("oturum tokenının süresi dolmuş")
)

// claims imzalanan payload. Alan adları kısa tutulur, token URL'lerde taşınmaz
// ama Authorization başlığında gereksiz şişmesin.
type claims struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

// Sign verilen kullanıcı için HMAC-SHA256 imzalı bir bearer token üretir.
// Biçim: base64url(payload) + "." + base64url(imza).
func Sign(secret, username string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("imza anahtarı boş")
	}
	payload, err := json.Marshal(claims{
		Subject:   username,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + sign(secret, body), nil
}

// Verify tokenın imzasını ve geçerlilik süresini doğrular, kullanıcı adını döner.
func Verify(secret, token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}
	body, sig := parts[0], parts[1]

	expected := sign(secret, body)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", ErrInvalidToken
	}
	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", ErrInvalidToken
	}
	if time.Now().Unix() >= c.ExpiresAt {
		return "", ErrExpiredToken
	}
	return c.Subject, nil
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
