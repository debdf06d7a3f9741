package main

import (
	"fmt"

	"github.com/nhlong2701/takeAwayBill/internal/app"
	"github.com/nhlong2701/takeAwayBill/internal/config"
	"github.com/nhlong2701/takeAwayBill/internal/logger"
)

func main() {
	// загрузка конфига
	config := config.NewConfig()
	// инициализация логгера
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		panic(fmt.Sprintf("can't initialize logger: %s ", err.Error()))
	}
	defer logger.Sync()
	// проверка обязательных настроек
	if err := config.Validate(); err != nil {
		logger.Panic("invalid configuration:", err.Error())
	}
	// запуск сервиса
	app.Run(config)
}
