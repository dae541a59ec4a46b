package tenant

import (
	"errors"

	"github.com/crmaster/api-crm/internal/apperr"
	"gorm.io/gorm"
)

// Repository encapsula operações de banco para Tenant.
type Repository struct {
	DB *gorm.DB
}

// NewRepository cria um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Salvar insere um novo tenant.
func (r *Repository) Salvar(t *Tenant) error {
	return r.DB.Create(t).Error
}

// ListarTodos retorna todos os tenants ativos e inativos.
func (r *Repository) ListarTodos() ([]Tenant, error) {
	var list []Tenant
	err := r.DB.Order("nome").Find(&list).Error
	return list, err
}

// BuscarPorID retorna um tenant pelo ID.
func (r *Repository) BuscarPorID(id string) (*Tenant, error) {
	var t Tenant
	if err := r.DB.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tenant")
		}
		return nil, err
	}
	return &t, nil
}

// BuscarPorSlug retorna um tenant pelo slug.
func (r *Repository) BuscarPorSlug(slug string) (*Tenant, error) {
	var t Tenant
	if err := r.DB.First(&t, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tenant")
		}
		return nil, err
	}
	return &t, nil
}
