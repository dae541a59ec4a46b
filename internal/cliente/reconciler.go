package cliente

import (
	"errors"

	"github.com/crmaster/api-crm/internal/planilha"
	"github.com/crmaster/api-crm/internal/tenant"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LegacyStore é a visão que o Reconciler tem do armazenamento legado:
// leitura e substituição de coleções inteiras, sem atualização parcial.
type LegacyStore interface {
	Read(tenantSlug, colecao string) ([]planilha.Registro, error)
	Write(tenantSlug, colecao string, registros []planilha.Registro) error
}

// Reconciler é a ponte de migração entre a planilha legada e a tabela
// relacional de clientes. Ele nunca falha a transação principal: registro
// ausente no legado não é erro, só uma chance perdida de backfill.
// A decisão de qual lado "vale" mora inteiramente aqui; quem chama não
// enxerga os dois stores.
type Reconciler struct {
	DB     *gorm.DB
	Legado LegacyStore
	Log    *zap.Logger
}

// NewReconciler cria um Reconciler.
func NewReconciler(db *gorm.DB, legado LegacyStore, log *zap.Logger) *Reconciler {
	return &Reconciler{DB: db, Legado: legado, Log: log}
}

// WithDB retorna uma cópia do reconciler usando um *gorm.DB específico (tx).
func (rc *Reconciler) WithDB(db *gorm.DB) *Reconciler {
	if db == nil {
		db = rc.DB
	}
	return &Reconciler{DB: db, Legado: rc.Legado, Log: rc.Log}
}

// SincronizarClienteDoLegado garante que o cliente exista na tabela
// relacional, copiando da planilha legada se preciso. Melhor esforço:
// qualquer falha vira warning e o retorno é sempre nil para o chamador.
func (rc *Reconciler) SincronizarClienteDoLegado(tc tenant.Context, clienteID string) {
	if clienteID == "" {
		return
	}

	var existente Customer
	err := rc.DB.Where("id = ? AND tenant_id = ?", clienteID, tc.ID).First(&existente).Error
	if err == nil {
		return // já migrado
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		rc.Log.Warn("reconciler: falha ao consultar cliente relacional",
			zap.String("tenant", tc.Slug), zap.String("cliente_id", clienteID), zap.Error(err))
		return
	}

	registros, err := rc.Legado.Read(tc.Slug, "customers")
	if err != nil {
		rc.Log.Warn("reconciler: falha ao ler planilha legada",
			zap.String("tenant", tc.Slug), zap.Error(err))
		return
	}

	var legado planilha.Registro
	for _, reg := range registros {
		if reg.String("id") == clienteID {
			legado = reg
			break
		}
	}
	if legado == nil {
		rc.Log.Debug("reconciler: cliente inexistente também no legado",
			zap.String("tenant", tc.Slug), zap.String("cliente_id", clienteID))
		return
	}

	novo := Customer{
		ID:       clienteID,
		TenantID: tc.ID,
		Nome:     legado.String("name"),
		Email:    legado.String("email"),
		Telefone: legado.String("phone"),
	}
	if novo.Nome == "" {
		novo.Nome = legado.String("nome")
	}
	if err := rc.DB.Create(&novo).Error; err != nil {
		rc.Log.Warn("reconciler: falha ao copiar cliente do legado",
			zap.String("tenant", tc.Slug), zap.String("cliente_id", clienteID), zap.Error(err))
		return
	}
	rc.Log.Info("reconciler: cliente copiado do legado",
		zap.String("tenant", tc.Slug), zap.String("cliente_id", clienteID))
}

// SincronizarLeadDoLegado é o espelho de SincronizarClienteDoLegado para
// leads: garante o lead na tabela relacional, copiando da planilha legada
// se preciso. Também melhor esforço.
func (rc *Reconciler) SincronizarLeadDoLegado(tc tenant.Context, leadID string) {
	if leadID == "" {
		return
	}

	var existente Lead
	err := rc.DB.Where("id = ? AND tenant_id = ?", leadID, tc.ID).First(&existente).Error
	if err == nil {
		return // já migrado
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		rc.Log.Warn("reconciler: falha ao consultar lead relacional",
			zap.String("tenant", tc.Slug), zap.String("lead_id", leadID), zap.Error(err))
		return
	}

	registros, err := rc.Legado.Read(tc.Slug, "leads")
	if err != nil {
		rc.Log.Warn("reconciler: falha ao ler planilha legada",
			zap.String("tenant", tc.Slug), zap.Error(err))
		return
	}

	var legado planilha.Registro
	for _, reg := range registros {
		if reg.String("id") == leadID {
			legado = reg
			break
		}
	}
	if legado == nil {
		rc.Log.Debug("reconciler: lead inexistente também no legado",
			zap.String("tenant", tc.Slug), zap.String("lead_id", leadID))
		return
	}

	novo := Lead{
		ID:       leadID,
		TenantID: tc.ID,
		Nome:     legado.String("name"),
		Email:    legado.String("email"),
		Telefone: legado.String("phone"),
		Status:   legado.String("status"),
		Valor:    legado.Float("value"),
	}
	if novo.Nome == "" {
		novo.Nome = legado.String("nome")
	}
	if novo.Status == "" {
		novo.Status = "new"
	}
	if err := rc.DB.Create(&novo).Error; err != nil {
		rc.Log.Warn("reconciler: falha ao copiar lead do legado",
			zap.String("tenant", tc.Slug), zap.String("lead_id", leadID), zap.Error(err))
		return
	}
	rc.Log.Info("reconciler: lead copiado do legado",
		zap.String("tenant", tc.Slug), zap.String("lead_id", leadID))
}
