package catalogo

import (
	"errors"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/tenant"
	"gorm.io/gorm"
)

// Resolver resolve serviços e planos do catálogo, sempre sob o tenant do
// contexto. IDs de outro tenant respondem NotFound, nunca o registro alheio.
type Resolver struct {
	DB *gorm.DB
}

// NewResolver cria um novo Resolver.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{DB: db}
}

// WithDB retorna uma cópia do resolver usando um *gorm.DB específico (tx).
func (r *Resolver) WithDB(db *gorm.DB) *Resolver {
	if db == nil {
		db = r.DB
	}
	return &Resolver{DB: db}
}

// BuscarServico retorna o serviço do catálogo com preço e duração.
func (r *Resolver) BuscarServico(tc tenant.Context, servicoID string) (*Product, error) {
	var p Product
	err := r.DB.
		Where("id = ? AND tenant_id = ?", servicoID, tc.ID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Serviço")
		}
		return nil, err
	}
	return &p, nil
}

// BuscarPlano retorna o plano de assinatura do tenant.
func (r *Resolver) BuscarPlano(tc tenant.Context, planoID string) (*Plan, error) {
	var p Plan
	err := r.DB.
		Where("id = ? AND tenant_id = ?", planoID, tc.ID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Plano")
		}
		return nil, err
	}
	return &p, nil
}
