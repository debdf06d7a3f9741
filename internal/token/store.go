package token

import (
	"sync"
	"time"
)

// Credential - учётные данные платформы: долгоживущий refresh-токен и
// короткоживущий access-токен с временем истечения.
type Credential struct {
	RefreshToken string
	AccessToken  string
	ExpiresAt    time.Time
}

// HasAccessToken сообщает, содержит ли набор закэшированный access-токен.
func (c Credential) HasAccessToken() bool {
	return c.AccessToken != "" && !c.ExpiresAt.IsZero()
}

// ShouldRefresh сообщает, пора ли обновлять access-токен: токен отсутствует
// либо истекает в пределах упреждающего интервала.
func (c Credential) ShouldRefresh(now time.Time, buffer time.Duration) bool {
	if !c.HasAccessToken() {
		return true
	}
	return !now.Add(buffer).Before(c.ExpiresAt)
}

// Store - потокобезопасное хранилище учётных данных в памяти процесса.
// Токены никогда не сохраняются на диск, при перезапуске процесса
// остаётся только refresh-токен из конфигурации.
type Store struct {
	mu         sync.RWMutex
	credential Credential
}

// NewStore создаёт хранилище с начальным refresh-токеном.
func NewStore(refreshToken string) *Store {
	return &Store{
		credential: Credential{RefreshToken: refreshToken},
	}
}

// Get возвращает копию текущих учётных данных.
func (s *Store) Get() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Set сохраняет новый access-токен и время его истечения.
func (s *Store) Set(accessToken string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential.AccessToken = accessToken
	s.credential.ExpiresAt = expiresAt
}

// SetRefreshToken заменяет refresh-токен. Используется при ротации:
// прежний токен отозван провайдером и повторно использоваться не должен.
func (s *Store) SetRefreshToken(refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential.RefreshToken = refreshToken
}

// Clear сбрасывает access-токен. Refresh-токен сохраняется, чтобы
// следующий обмен мог пройти без повторной настройки.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential.AccessToken = ""
	s.credential.ExpiresAt = time.Time{}
}
