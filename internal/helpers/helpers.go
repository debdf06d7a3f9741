package helpers

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"

	"github.com/nhlong2701/takeAwayBill/internal/logger"
)

// GetUsername - извлекает имя пользователя из контекста JWT токена
func GetUsername(context context.Context) (string, error) {
	_, claims, _ := jwtauth.FromContext(context)
	login, ok := claims["username"].(string)
	if !ok {
		logger.Warn("Undefined username from token")
		return "", fmt.Errorf("undefined username")
	}
	return login, nil
}
