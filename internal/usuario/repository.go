package usuario

import (
	"errors"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/tenant"
	"gorm.io/gorm"
)

// Repository acessa os usuários no banco.
type Repository struct {
	DB *gorm.DB
}

// NewRepository cria um repositório de usuários.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Salvar insere um usuário novo.
func (r *Repository) Salvar(u *User) error {
	return r.DB.Create(u).Error
}

// BuscarPorEmail procura um usuário ativo pelo email, em qualquer tenant.
// Usado no login, antes de existir contexto de tenant.
func (r *Repository) BuscarPorEmail(email string) (*User, error) {
	var u User
	err := r.DB.Where("email = ? AND active = ?", email, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Usuário")
		}
		return nil, err
	}
	return &u, nil
}

// ListarPorTenant retorna os usuários do tenant.
func (r *Repository) ListarPorTenant(tc tenant.Context) ([]User, error) {
	var usuarios []User
	err := r.DB.Where("tenant_id = ?", tc.ID).Order("name ASC").Find(&usuarios).Error
	return usuarios, err
}

// Desativar marca o usuário como inativo.
func (r *Repository) Desativar(tc tenant.Context, id string) error {
	res := r.DB.Model(&User{}).
		Where("id = ? AND tenant_id = ?", id, tc.ID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Usuário")
	}
	return nil
}
