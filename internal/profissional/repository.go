package profissional

import (
	"errors"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/tenant"
	"gorm.io/gorm"
)

// Repository encapsula operações de banco para Professional.
type Repository struct {
	DB *gorm.DB
}

// NewRepository cria um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// Salvar insere um novo profissional.
func (r *Repository) Salvar(p *Professional) error {
	return r.DB.Create(p).Error
}

// ListarPorTenant retorna os profissionais do tenant ordenados por nome.
func (r *Repository) ListarPorTenant(tc tenant.Context) ([]Professional, error) {
	var list []Professional
	err := r.DB.Where("tenant_id = ?", tc.ID).Order("name").Find(&list).Error
	return list, err
}

// BuscarPorID retorna um profissional do tenant pelo ID.
func (r *Repository) BuscarPorID(tc tenant.Context, id string) (*Professional, error) {
	var p Professional
	err := r.DB.Where("id = ? AND tenant_id = ?", id, tc.ID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Profissional")
		}
		return nil, err
	}
	return &p, nil
}

// Atualizar salva alterações em um profissional existente.
func (r *Repository) Atualizar(p *Professional) error {
	return r.DB.Save(p).Error
}

// Deletar remove um profissional do tenant.
func (r *Repository) Deletar(tc tenant.Context, id string) error {
	res := r.DB.Where("id = ? AND tenant_id = ?", id, tc.ID).Delete(&Professional{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Profissional")
	}
	return nil
}
