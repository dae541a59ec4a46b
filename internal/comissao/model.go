package comissao

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Commission registra o valor devido a um profissional por um evento
// faturável. A fonte é exatamente uma: agendamento OU assinatura. A
// unicidade por (tenant, fonte) é garantida por índice — o insert é o
// próprio portão de idempotência, a consulta prévia só evita o round-trip.
type Commission struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index;uniqueIndex:ux_comissao_agendamento;uniqueIndex:ux_comissao_assinatura" json:"tenant_id"`

	ProfessionalID string  `gorm:"type:uuid;not null;index" json:"professional_id"`
	AppointmentID  *string `gorm:"type:uuid;uniqueIndex:ux_comissao_agendamento" json:"appointment_id,omitempty"`
	SubscriptionID *string `gorm:"type:uuid;uniqueIndex:ux_comissao_assinatura" json:"subscription_id,omitempty"`
	ServiceID      *string `gorm:"type:uuid" json:"service_id,omitempty"`

	ServiceValue         float64 `gorm:"type:numeric(12,2);not null" json:"service_value"`
	CommissionPercentage float64 `gorm:"type:numeric(5,2);not null" json:"commission_percentage"`
	CommissionValue      float64 `gorm:"type:numeric(12,2);not null" json:"commission_value"`
	Status               string  `gorm:"size:20;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName fixa o nome em inglês, alinhado ao schema existente.
func (Commission) TableName() string { return "commissions" }

// ProfessionalPerformance é o agregado mensal por profissional, mantido
// incrementalmente na mesma transação da comissão que o alimenta — nunca
// recalculado do zero.
type ProfessionalPerformance struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID       string `gorm:"type:uuid;not null;uniqueIndex:ux_perf_periodo" json:"tenant_id"`
	ProfessionalID string `gorm:"type:uuid;not null;uniqueIndex:ux_perf_periodo" json:"professional_id"`
	Period         string `gorm:"size:7;not null;uniqueIndex:ux_perf_periodo" json:"period"` // YYYY-MM

	TotalServices   int     `gorm:"not null;default:0" json:"total_services"`
	TotalCustomers  int     `gorm:"not null;default:0" json:"total_customers"`
	TotalRevenue    float64 `gorm:"type:numeric(12,2);not null;default:0" json:"total_revenue"`
	TotalCommission float64 `gorm:"type:numeric(12,2);not null;default:0" json:"total_commission"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *ProfessionalPerformance) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName fixa o nome em inglês, alinhado ao schema existente.
func (ProfessionalPerformance) TableName() string { return "professional_performances" }

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Commission{}, &ProfessionalPerformance{})
}
