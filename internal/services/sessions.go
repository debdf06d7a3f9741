package services

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhlong2701/takeAwayBill/internal/config"
	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/models"
)

const (
	TokenSecretAlgo = "HS256"
)

// SessionsService - контракт сервиса сессий панели
type SessionsService interface {
	Authenticate(ctx context.Context, user models.LoginRequest) (bool, error)
	GenerateJWT(username string) (string, error)
	GetTokenAuth() *jwtauth.JWTAuth
}

// Sessions - сервис доступа к панели. Если пользователь панели не задан в
// конфигурации, вход демонстрационный: принимается любая непустая пара
// логин/пароль.
type Sessions struct {
	JWTAuth      *jwtauth.JWTAuth
	User         string
	PasswordHash string
	TTL          time.Duration
}

// Создание сервиса
func NewSessions(cfg config.ServerConfig) *Sessions {
	tokenAuth := jwtauth.New(TokenSecretAlgo, []byte(cfg.JWTSecret), nil)
	return &Sessions{
		JWTAuth:      tokenAuth,
		User:         cfg.DashboardUser,
		PasswordHash: cfg.DashboardPasswordHash,
		TTL:          cfg.SessionTTL,
	}
}

// Аутентификация пользователя панели
func (s *Sessions) Authenticate(ctx context.Context, user models.LoginRequest) (bool, error) {
	if user.Login == "" || user.Password == "" {
		return false, nil
	}

	// демонстрационный режим: пользователь панели не настроен
	if s.User == "" {
		logger.Info("Demo login", user.Login)
		return true, nil
	}

	if user.Login != s.User {
		logger.Warn("Unknown dashboard user", user.Login)
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(user.Password)); err != nil {
		logger.Warn("Invalid password", user.Login)
		return false, nil
	}

	logger.Info("User authenticated", user.Login)
	return true, nil
}

// Создание строки JWT токена панели
func (s *Sessions) GenerateJWT(username string) (string, error) {
	expirationTime := time.Now().Add(s.TTL)

	_, tokenString, err := s.JWTAuth.Encode(map[string]interface{}{
		"username": username,
		"exp":      expirationTime,
		"jti":      uuid.NewString(),
	})
	return tokenString, err
}

// Возвращаем указатель на JWTAuth (chi)
func (s *Sessions) GetTokenAuth() *jwtauth.JWTAuth {
	return s.JWTAuth
}
