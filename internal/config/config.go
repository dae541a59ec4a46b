package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração de ambiente da API.
type Config struct {
	Porta     string
	JWTSecret string

	DBHost     string
	DBPort     uint
	DBNome     string
	DBUsuario  string
	DBSenha    string
	DBSSLModo  string

	// Diretório das planilhas do armazenamento legado (um .xlsx por tenant).
	DiretorioPlanilhas string
	// Diretório de saída dos contratos em PDF.
	DiretorioContratos string

	// Credenciais OAuth2 do Google Calendar (opcional; vazio desabilita a
	// integração de agenda externa).
	GoogleCredentialsFile string
}

// Load carrega o .env (se existir) e monta o Config validando o essencial.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Porta:                 getEnvOuPadrao("PORT", "8080"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		DBHost:                getEnvOuPadrao("DB_HOST", "localhost"),
		DBNome:                getEnvOuPadrao("DB_NAME", "crmaster"),
		DBUsuario:             getEnvOuPadrao("DB_USERNAME", "postgres"),
		DBSenha:               getEnvOuPadrao("DB_PASSWORD", "postgres"),
		DBSSLModo:             getEnvOuPadrao("DB_SSL_MODE", "disable"),
		DiretorioPlanilhas:    getEnvOuPadrao("EXCEL_DIR", "excel"),
		DiretorioContratos:    getEnvOuPadrao("STORAGE_DIR", "storage"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
	}

	porta, err := strconv.ParseUint(getEnvOuPadrao("DB_PORT", "5432"), 10, 32)
	if err != nil {
		porta = 5432
	}
	cfg.DBPort = uint(porta)

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET não definida")
	}
	return cfg, nil
}

// DSN monta a string de conexão do Postgres.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUsuario, c.DBSenha, c.DBNome, c.DBPort, c.DBSSLModo)
}

func getEnvOuPadrao(chave, padrao string) string {
	if v := os.Getenv(chave); v != "" {
		return v
	}
	return padrao
}
