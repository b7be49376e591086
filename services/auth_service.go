package services

import (
	"crypto/subtle"
	"strings"

	"naform.link/configs"
	"naform.link/configs/configslog"
	"naform.link/pkg/authtoken"

	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError kimlik doğrulama hataları.
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrAuthInvalidCredentials AuthServiceError = "kullanıcı adı veya şifre hatalı"
	ErrAuthNotConfigured      AuthServiceError = "kimlik doğrulama yapılandırılmamış"
	ErrAuthInvalidToken       AuthServiceError = "geçersiz veya süresi dolmuş oturum tokenı"
)

// IAuthService tek statik yönetici kimliği üzerinden oturum yönetimi arayüzü.
type IAuthService interface {
	Login(username, password string) (string, error)
	ValidateToken(token string) (string, error)
	Enabled() bool
}

// AuthService IAuthService arayüzünü uygular. İmza anahtarı yapılandırılmamışsa
// koruma tamamen devre dışıdır; bu bir güvenlik önlemi değil, açık bir
// geliştirme modu kolaylığıdır.
type AuthService struct {
	cfg *configs.Config
}

// NewAuthService yeni bir servis oluşturur ve eksik yapılandırmayı loglar.
func NewAuthService(cfg *configs.Config) IAuthService {
	if cfg.AuthSecret == "" {
		configslog.SLog.Warn("AUTH_TOKEN_SECRET tanımlı değil: korumalı rotalar kimlik doğrulamasız çalışacak (geliştirme modu)")
	}
	return &AuthService{cfg: cfg}
}

// Enabled korumanın aktif olup olmadığını döner.
func (s *AuthService) Enabled() bool {
	return s.cfg.AuthSecret != ""
}

// Login yönetici kimliğini doğrular ve imzalı bir bearer token üretir.
// Şifre "$2" ile başlıyorsa bcrypt hash kabul edilir, aksi halde sabit
// zamanlı düz karşılaştırma yapılır (geliştirme kolaylığı).
func (s *AuthService) Login(username, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthNotConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1

	var passOK bool
	if strings.HasPrefix(s.cfg.AdminPassword, "$2") {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPassword), []byte(password)) == nil
	} else {
		passOK = s.cfg.AdminPassword != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	}

	if !userOK || !passOK {
		configslog.SLog.Warnf("Başarısız giriş denemesi: kullanıcı=%q", username)
		return "", ErrAuthInvalidCredentials
	}

	token, err := authtoken.Sign(s.cfg.AuthSecret, s.cfg.AdminUsername, s.cfg.TokenTTL)
	if err != nil {
		return "", err
	}
	configslog.SLog.Infof("Yönetici girişi başarılı: kullanıcı=%s", s.cfg.AdminUsername)
	return token, nil
}

// ValidateToken tokenı doğrular ve kullanıcı adını döner.
func (s *AuthService) ValidateToken(token string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthNotConfigured
	}
	username, err := authtoken.Verify(s.cfg.AuthSecret, token)
	if err != nil {
		return "", ErrAuthInvalidToken
	}
	return username, nil
}

var _ IAuthService = (*AuthService)(nil)
