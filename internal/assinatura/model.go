package assinatura

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status de uma assinatura.
const (
	StatusPendente  = "pendente"
	StatusAtiva     = "ativa"
	StatusCancelada = "cancelada"
)

// Subscription vincula um cliente a um plano do catálogo. Nasce pendente
// com o contrato gerado; a assinatura do contrato ativa o plano, lança a
// primeira cobrança e dispara a comissão do profissional responsável.
type Subscription struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	CustomerID     string  `gorm:"type:uuid;not null;index" json:"customer_id"`
	PlanID         string  `gorm:"type:uuid;not null" json:"plan_id"`
	ProfessionalID *string `gorm:"type:uuid" json:"professional_id,omitempty"`

	Valor         float64    `gorm:"column:amount;type:numeric(12,2);not null" json:"valor"`
	Status        string     `gorm:"size:20;not null;default:'pendente';index" json:"status"`
	CaminhoPDF    string     `gorm:"column:contract_path;size:500" json:"contract_path,omitempty"`
	DataInicio    time.Time  `gorm:"column:start_date;type:date" json:"data_inicio"`
	DataAtivacao  *time.Time `gorm:"column:activated_at" json:"data_ativacao,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Subscription{})
}
