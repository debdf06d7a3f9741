package models

// LoginRequest - модель для аутентификации пользователя панели, приходит извне
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse - модель ответа с сессионным токеном панели
type LoginResponse struct {
	Token string `json:"token"`
}
