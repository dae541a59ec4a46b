package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger

// Init configura o logger global. Em produção (APP_ENV=production) usa o
// encoder JSON; fora disso, saída de desenvolvimento colorida.
func Init() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var err error
	global, err = cfg.Build()
	if err != nil {
		log.Fatalf("falha ao inicializar o logger: %v", err)
	}
}

// Get retorna o logger global, inicializando sob demanda.
func Get() *zap.Logger {
	if global == nil {
		Init()
	}
	return global
}
