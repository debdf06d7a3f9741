package token

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultExpiryBuffer - упреждающий интервал обновления access-токена.
// Токен обновляется заранее, чтобы не истечь во время запроса к API.
const DefaultExpiryBuffer = 5 * time.Minute

// Exchanger - контракт обмена refresh-токена на access-токен
type Exchanger interface {
	Refresh(ctx context.Context) (Credential, error)
}

// Provider выдаёт действующий access-токен, прозрачно обновляя его через
// Exchanger при отсутствии или скором истечении. Одновременные вызовы при
// истёкшем токене приводят ровно к одному обмену, остальные ждут его
// результата (single-flight).
type Provider struct {
	store     *Store
	exchanger Exchanger
	buffer    time.Duration
	group     singleflight.Group
	now       func() time.Time
}

// NewProvider создаёт поставщик access-токенов поверх хранилища и обменника.
func NewProvider(store *Store, exchanger Exchanger, buffer time.Duration) *Provider {
	if buffer <= 0 {
		buffer = DefaultExpiryBuffer
	}
	return &Provider{
		store:     store,
		exchanger: exchanger,
		buffer:    buffer,
		now:       time.Now,
	}
}

// Token возвращает действующий access-токен. Токен считается истёкшим,
// когда до ExpiresAt остаётся меньше упреждающего интервала.
func (p *Provider) Token(ctx context.Context) (string, error) {
	credential := p.store.Get()
	if !credential.ShouldRefresh(p.now(), p.buffer) {
		return credential.AccessToken, nil
	}
	return p.Refresh(ctx)
}

// Refresh принудительно обновляет access-токен, минуя проверку срока.
// Используется клиентом API после ответа 401. При неудачном обмене
// access-токен сбрасывается, ошибка отдаётся всем ожидающим вызовам.
func (p *Provider) Refresh(ctx context.Context) (string, error) {
	value, err, _ := p.group.Do("refresh", func() (interface{}, error) {
		credential, err := p.exchanger.Refresh(ctx)
		if err != nil {
			p.store.Clear()
			return nil, err
		}
		return credential.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Credential возвращает текущее состояние учётных данных платформы.
func (p *Provider) Credential() Credential {
	return p.store.Get()
}
