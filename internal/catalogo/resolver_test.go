package catalogo

import (
	"fmt"
	"testing"

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

func TestBuscarServico(t *testing.T) {
	db := abrirBanco(t)
	resolver := NewResolver(db)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	servico := &Product{TenantID: tc.ID, Nome: "Corte", Tipo: "service", DuracaoMinutos: 45, Preco: 120, Ativo: true}
	require.NoError(t, db.Create(servico).Error)

	achado, err := resolver.BuscarServico(tc, servico.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, achado.DuracaoMinutos)
	assert.Equal(t, 120.00, achado.Preco)
}

func TestBuscarServicoDeOutroTenant(t *testing.T) {
	db := abrirBanco(t)
	resolver := NewResolver(db)

	servico := &Product{TenantID: "t1", Nome: "Corte", Tipo: "service", Preco: 120, Ativo: true}
	require.NoError(t, db.Create(servico).Error)

	// id de outro tenant responde NotFound, nunca vaza o registro
	_, err := resolver.BuscarServico(tenant.Context{ID: "t2", Slug: "salao-b"}, servico.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestBuscarPlanoDeOutroTenant(t *testing.T) {
	db := abrirBanco(t)
	resolver := NewResolver(db)

	plano := &Plan{TenantID: "t1", Nome: "Mensal", ValorBase: 300, Ativo: true}
	require.NoError(t, db.Create(plano).Error)

	_, err := resolver.BuscarPlano(tenant.Context{ID: "t2", Slug: "salao-b"}, plano.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	achado, err := resolver.BuscarPlano(tenant.Context{ID: "t1", Slug: "salao-a"}, plano.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.00, achado.ValorBase)
}
