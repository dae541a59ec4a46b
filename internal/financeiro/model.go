package financeiro

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status e origens dos lançamentos financeiros.
const (
	StatusPendente  = "pendente"
	StatusPago      = "pago"
	StatusAtrasado  = "atrasado"
	StatusCancelado = "cancelado"

	TipoReceita = "receita"
	TipoDespesa = "despesa"

	OrigemAgenda     = "agenda"
	OrigemAssinatura = "assinatura"
	OrigemAvulso     = "avulso"
)

// FinanceEntry é uma linha do livro de receitas/despesas do tenant.
// Lançamentos de origem "agenda" são criados pela agenda exatamente uma vez
// por agendamento em aberto; depois de criados o valor não é reescrito.
type FinanceEntry struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	LeadID         *string `gorm:"type:uuid" json:"lead_id,omitempty"`
	CustomerID     *string `gorm:"type:uuid" json:"customer_id,omitempty"`
	ServiceID      *string `gorm:"type:uuid" json:"service_id,omitempty"`
	CategoryID     *string `gorm:"type:uuid" json:"categoria,omitempty"`
	AppointmentID  *string `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	SubscriptionID *string `gorm:"type:uuid" json:"subscription_id,omitempty"`

	Tipo      string    `gorm:"column:type;size:20;not null" json:"tipo"`
	Descricao string    `gorm:"column:description;size:255;not null" json:"descricao"`
	Origem    string    `gorm:"column:origin;size:30;default:'avulso'" json:"origem"`
	Valor     float64   `gorm:"column:amount;type:numeric(12,2);not null" json:"valor"`
	DueDate   time.Time `gorm:"column:due_date;type:date;not null" json:"data_vencimento"`
	Status    string    `gorm:"size:20;default:'pendente';index" json:"status"`

	FormaPagamento string `gorm:"column:payment_method;size:50" json:"forma_pagamento,omitempty"`
	Parcela        int    `gorm:"column:installment_number;default:1" json:"parcela"`
	TotalParcelas  int    `gorm:"column:total_installments;default:1" json:"total_parcelas"`
	Observacoes    string `gorm:"column:observations;type:text" json:"observacoes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *FinanceEntry) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FinanceCategory classifica lançamentos (entrada, saída ou ambos).
type FinanceCategory struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Nome  string `gorm:"column:name;size:100;not null" json:"nome"`
	Tipo  string `gorm:"column:type;size:20;not null;default:'ambos'" json:"tipo"`
	Ativo bool   `gorm:"column:active;not null;default:true" json:"-"`
}

func (c *FinanceCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&FinanceEntry{}, &FinanceCategory{})
}
