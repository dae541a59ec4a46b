package financeiro

import (
	"fmt"
	"testing"
	"time"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func abrirBanco(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestPromocaoParaAtrasadoNaLeitura(t *testing.T) {
	db := abrirBanco(t)
	repo := NewRepository(db)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	vencido := &FinanceEntry{
		TenantID:  tc.ID,
		Tipo:      TipoReceita,
		Descricao: "Mensalidade de maio",
		Valor:     100,
		DueDate:   time.Now().AddDate(0, 0, -10),
		Status:    StatusPendente,
	}
	futuro := &FinanceEntry{
		TenantID:  tc.ID,
		Tipo:      TipoReceita,
		Descricao: "Mensalidade do mês que vem",
		Valor:     100,
		DueDate:   time.Now().AddDate(0, 1, 0),
		Status:    StatusPendente,
	}
	pago := &FinanceEntry{
		TenantID:  tc.ID,
		Tipo:      TipoReceita,
		Descricao: "Já quitado",
		Valor:     100,
		DueDate:   time.Now().AddDate(0, 0, -10),
		Status:    StatusPago,
	}
	for _, e := range []*FinanceEntry{vencido, futuro, pago} {
		require.NoError(t, repo.Criar(e))
	}

	entries, err := repo.ListarPorTenant(tc)
	require.NoError(t, err)

	porID := map[string]string{}
	for _, e := range entries {
		porID[e.ID] = e.Status
	}
	assert.Equal(t, StatusAtrasado, porID[vencido.ID])
	assert.Equal(t, StatusPendente, porID[futuro.ID])
	assert.Equal(t, StatusPago, porID[pago.ID])

	// a promoção é persistida, não só decorada na resposta
	var relido FinanceEntry
	require.NoError(t, db.First(&relido, "id = ?", vencido.ID).Error)
	assert.Equal(t, StatusAtrasado, relido.Status)
}

func TestVencimentoDeHojeNaoEstaAtrasado(t *testing.T) {
	db := abrirBanco(t)
	repo := NewRepository(db)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	// vencimento à meia-noite local de hoje: o dia ainda não passou,
	// mesmo quando o fuso local está à frente do UTC
	agora := time.Now()
	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())
	entry := &FinanceEntry{
		TenantID:  tc.ID,
		Tipo:      TipoReceita,
		Descricao: "Mensalidade vencendo hoje",
		Valor:     100,
		DueDate:   hoje,
		Status:    StatusPendente,
	}
	require.NoError(t, repo.Criar(entry))

	entries, err := repo.ListarPorTenant(tc)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusPendente, entries[0].Status)
}

func TestCriarParcelado(t *testing.T) {
	db := abrirBanco(t)
	repo := NewRepository(db)

	base := FinanceEntry{
		TenantID:  "t1",
		Tipo:      TipoReceita,
		Descricao: "Pacote trimestral",
		Valor:     100,
		DueDate:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:    StatusPago,
	}
	criadas, err := repo.CriarParcelado(base, 3)
	require.NoError(t, err)
	require.Len(t, criadas, 3)

	assert.Equal(t, 33.33, criadas[0].Valor)
	assert.Equal(t, "Pacote trimestral (1/3)", criadas[0].Descricao)
	assert.Equal(t, StatusPago, criadas[0].Status)
	assert.Equal(t, StatusPendente, criadas[1].Status)
	assert.Equal(t, time.July, criadas[1].DueDate.Month())
	assert.Equal(t, time.August, criadas[2].DueDate.Month())
	assert.Equal(t, 3, criadas[2].TotalParcelas)
}

func TestGarantirCategoria(t *testing.T) {
	db := abrirBanco(t)
	repo := NewRepository(db)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	cat, err := repo.GarantirCategoria(tc, "Serviços", TipoReceita)
	require.NoError(t, err)
	require.NotNil(t, cat)

	mesma, err := repo.GarantirCategoria(tc, "Serviços", TipoReceita)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, mesma.ID)

	var total int64
	db.Model(&FinanceCategory{}).Where("tenant_id = ?", tc.ID).Count(&total)
	assert.EqualValues(t, 1, total)
}

func TestBuscarPorIDDeOutroTenant(t *testing.T) {
	db := abrirBanco(t)
	repo := NewRepository(db)

	entry := &FinanceEntry{
		TenantID:  "t1",
		Tipo:      TipoDespesa,
		Descricao: "Aluguel",
		Valor:     1500,
		DueDate:   time.Now(),
		Status:    StatusPendente,
	}
	require.NoError(t, repo.Criar(entry))

	_, err := repo.BuscarPorID(tenant.Context{ID: "t2", Slug: "salao-b"}, entry.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
