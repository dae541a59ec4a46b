package cliente

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer é o registro relacional do cliente. Durante a migração o mesmo
// cliente pode existir também na planilha legada; o Reconciler copia de lá
// para cá quando necessário.
type Customer struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Nome      string `gorm:"column:name;size:255;not null" json:"name"`
	Email     string `gorm:"size:255" json:"email"`
	Telefone  string `gorm:"column:phone;size:30" json:"phone"`
	Documento string `gorm:"column:document;size:30" json:"document"`
	Endereco  string `gorm:"column:address;type:text" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Lead é um contato ainda não convertido em cliente.
type Lead struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Nome     string  `gorm:"column:name;size:255;not null" json:"name"`
	Email    string  `gorm:"size:255" json:"email"`
	Telefone string  `gorm:"column:phone;size:30" json:"phone"`
	Status   string  `gorm:"size:30;default:'new'" json:"status"`
	Valor    float64 `gorm:"column:value;type:numeric(12,2);default:0" json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Customer{}, &Lead{})
}
