package financeiro

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/tenant"
	"gorm.io/gorm"
)

// Repository encapsula o acesso aos lançamentos e categorias financeiras.
type Repository struct {
	DB *gorm.DB
}

// NewRepository instancia um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (ex.: tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// Criar insere um lançamento.
func (r *Repository) Criar(entry *FinanceEntry) error {
	return r.DB.Create(entry).Error
}

// CriarParcelado divide o valor em N parcelas mensais. A primeira parcela
// mantém o status informado; as demais nascem pendentes.
func (r *Repository) CriarParcelado(base FinanceEntry, parcelas int) ([]FinanceEntry, error) {
	if parcelas < 1 {
		parcelas = 1
	}
	valorParcela := arredondar2(base.Valor / float64(parcelas))

	criadas := make([]FinanceEntry, 0, parcelas)
	for i := 0; i < parcelas; i++ {
		entry := base
		entry.ID = ""
		entry.Valor = valorParcela
		entry.DueDate = base.DueDate.AddDate(0, i, 0)
		entry.Parcela = i + 1
		entry.TotalParcelas = parcelas
		if parcelas > 1 {
			entry.Descricao = fmt.Sprintf("%s (%d/%d)", base.Descricao, i+1, parcelas)
		}
		if i > 0 {
			entry.Status = StatusPendente
		}
		if err := r.DB.Create(&entry).Error; err != nil {
			return nil, err
		}
		criadas = append(criadas, entry)
	}
	return criadas, nil
}

// ListarPorTenant retorna os lançamentos por vencimento decrescente,
// promovendo na leitura pendente→atrasado quando o vencimento já passou.
// Correção derivada em tempo de leitura, não existe job de fundo.
func (r *Repository) ListarPorTenant(tc tenant.Context) ([]FinanceEntry, error) {
	var entries []FinanceEntry
	err := r.DB.
		Where("tenant_id = ?", tc.ID).
		Order("due_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	// meia-noite local, não UTC: vencimento de hoje ainda não está atrasado
	agora := time.Now()
	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())
	for i := range entries {
		if entries[i].Status == StatusPendente && entries[i].DueDate.Before(hoje) {
			entries[i].Status = StatusAtrasado
			if err := r.DB.Model(&FinanceEntry{}).
				Where("id = ?", entries[i].ID).
				Update("status", StatusAtrasado).Error; err != nil {
				return nil, err
			}
		}
	}
	return entries, nil
}

// BuscarPorID retorna um lançamento do tenant.
func (r *Repository) BuscarPorID(tc tenant.Context, id string) (*FinanceEntry, error) {
	var entry FinanceEntry
	err := r.DB.Where("id = ? AND tenant_id = ?", id, tc.ID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Lançamento")
		}
		return nil, err
	}
	return &entry, nil
}

// BuscarPorAgendamento retorna o lançamento de origem "agenda" vinculado ao
// agendamento, se existir.
func (r *Repository) BuscarPorAgendamento(tc tenant.Context, agendamentoID string) (*FinanceEntry, error) {
	var entry FinanceEntry
	err := r.DB.
		Where("tenant_id = ? AND appointment_id = ? AND origin = ?", tc.ID, agendamentoID, OrigemAgenda).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Lançamento")
		}
		return nil, err
	}
	return &entry, nil
}

// AtualizarStatus troca o status (e opcionalmente a forma de pagamento).
func (r *Repository) AtualizarStatus(tc tenant.Context, id, status, formaPagamento string) error {
	updates := map[string]interface{}{"status": status}
	if formaPagamento != "" {
		updates["payment_method"] = formaPagamento
	}
	res := r.DB.Model(&FinanceEntry{}).
		Where("id = ? AND tenant_id = ?", id, tc.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Lançamento")
	}
	return nil
}

// Deletar remove um lançamento do tenant.
func (r *Repository) Deletar(tc tenant.Context, id string) error {
	res := r.DB.Where("id = ? AND tenant_id = ?", id, tc.ID).Delete(&FinanceEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Lançamento")
	}
	return nil
}

// GarantirCategoria devolve a categoria ativa com o nome dado, criando-a se
// o tenant ainda não a tem (ex.: "Serviços" para lançamentos da agenda).
func (r *Repository) GarantirCategoria(tc tenant.Context, nome, tipo string) (*FinanceCategory, error) {
	var cat FinanceCategory
	err := r.DB.
		Where("tenant_id = ? AND name = ? AND active = ?", tc.ID, nome, true).
		First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat = FinanceCategory{TenantID: tc.ID, Nome: nome, Tipo: tipo, Ativo: true}
	if err := r.DB.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListarCategorias retorna as categorias ativas do tenant.
func (r *Repository) ListarCategorias(tc tenant.Context) ([]FinanceCategory, error) {
	var cats []FinanceCategory
	err := r.DB.
		Where("tenant_id = ? AND active = ?", tc.ID, true).
		Order("name").
		Find(&cats).Error
	return cats, err
}

func arredondar2(v float64) float64 {
	return math.Round(v*100) / 100
}
