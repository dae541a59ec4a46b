package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Context identifica o tenant dono da requisição. Toda operação do núcleo
// recebe este valor; nenhuma consulta sai dele.
type Context struct {
	ID   string
	Slug string
}

// Tenant é a fronteira de isolamento: todo registro do sistema carrega o
// tenant_id de um Tenant. Provisionado pelo painel master.
type Tenant struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	Nome          string `gorm:"size:255;not null" json:"nome"`
	Slug          string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Plan          string `gorm:"size:50;default:'basic'" json:"plan"`
	PaymentStatus string `gorm:"size:50;default:'trial'" json:"payment_status"`
	Ativo         bool   `gorm:"not null;default:true" json:"ativo"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Tenant{})
}
