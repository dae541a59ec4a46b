package catalogo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product representa um item vendável do tenant. Serviços são produtos com
// type="service" e carregam duração e preço usados pela agenda.
type Product struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Nome           string  `gorm:"column:name;size:255;not null" json:"name"`
	Descricao      string  `gorm:"column:description;type:text" json:"description"`
	SKU            string  `gorm:"size:50" json:"sku"`
	Tipo           string  `gorm:"column:type;size:20;not null;default:'product'" json:"type"`
	DuracaoMinutos int     `gorm:"column:duration_minutes;not null;default:30" json:"duration_minutes"`
	Preco          float64 `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	Ativo          bool    `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Plan representa um plano de assinatura que pode cobrir agendamentos.
type Plan struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Nome          string  `gorm:"column:name;size:255;not null" json:"name"`
	Descricao     string  `gorm:"column:description;type:text" json:"description"`
	ValorBase     float64 `gorm:"column:base_price;type:numeric(12,2);not null;default:0" json:"base_price"`
	Periodicidade string  `gorm:"column:periodicity;size:20;not null;default:'monthly'" json:"periodicity"`
	Ativo         bool    `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Product{}, &Plan{})
}
