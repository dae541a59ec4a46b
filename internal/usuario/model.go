package usuario

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Papéis de usuário dentro de um tenant.
const (
	RoleAdmin  = "admin"
	RoleMaster = "master"
	RoleUser   = "user"
)

// User é um usuário de um tenant. O papel "master" pertence à operação
// da plataforma e enxerga todos os tenants.
type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"type:uuid;not null;uniqueIndex:ux_usuario_email" json:"tenant_id"`

	Nome  string `gorm:"column:name;size:255;not null" json:"nome"`
	Email string `gorm:"size:255;not null;uniqueIndex:ux_usuario_email" json:"email"`
	Senha string `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role  string `gorm:"size:20;not null;default:'user'" json:"role"`
	Ativo bool   `gorm:"column:active;not null;default:true" json:"ativo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
