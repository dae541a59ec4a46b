package profissional

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Professional é quem executa serviços e recebe comissão. O percentual é
// snapshotado na comissão no momento do cálculo; alterá-lo aqui não afeta
// comissões já geradas.
type Professional struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Nome                 string  `gorm:"column:name;size:255;not null" json:"name"`
	Email                string  `gorm:"size:255" json:"email"`
	Telefone             string  `gorm:"column:phone;size:30" json:"phone"`
	Especialidade        string  `gorm:"column:specialty;size:100" json:"specialty"`
	CommissionPercentage float64 `gorm:"type:numeric(5,2);not null;default:0" json:"commission_percentage"`
	Ativo                bool    `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Professional) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Professional{})
}
