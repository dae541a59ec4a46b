package agendamento

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status de ciclo de vida e de cobrança de um agendamento.
const (
	StatusAgendado  = "scheduled"
	StatusConcluido = "completed"
	StatusCancelado = "cancelled"

	CobrancaAberta       = "open"
	CobrancaCobertaPlano = "covered_by_plan"
	CobrancaPaga         = "paid"
	CobrancaCancelada    = "cancelled"
)

// Appointment é uma ocorrência agendada de um serviço. Duração e valor
// são fotografados do catálogo na criação; mudar o preço do serviço
// depois não altera agendamentos existentes.
type Appointment struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	CustomerID     *string `gorm:"type:uuid" json:"customer_id,omitempty"`
	LeadID         *string `gorm:"type:uuid" json:"lead_id,omitempty"`
	ProfessionalID *string `gorm:"type:uuid;index" json:"professional_id,omitempty"`
	ServiceID      string  `gorm:"type:uuid;not null" json:"service_id"`
	PlanID         *string `gorm:"type:uuid" json:"plan_id,omitempty"`

	Titulo    string `gorm:"column:title;size:255;not null" json:"title"`
	Descricao string `gorm:"column:description;type:text" json:"description"`

	Inicio         time.Time `gorm:"column:start_time;not null;index" json:"start_time"`
	Fim            time.Time `gorm:"column:end_time;not null" json:"end_time"`
	DuracaoMinutos int       `gorm:"column:service_duration_minutes;not null;default:30" json:"service_duration_minutes"`
	ValorServico   float64   `gorm:"column:service_value;type:numeric(12,2);not null;default:0" json:"service_value"`

	Status        string `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	BillingStatus string `gorm:"column:billing_status;size:20;not null;default:'open'" json:"billing_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (Appointment) TableName() string {
	return "appointments"
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Appointment{})
}
