package cliente

import (
	"errors"
	"fmt"
	"testing"

	"github.com/crmaster/api-crm/internal/planilha"
	"github.com/crmaster/api-crm/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type legadoFake struct {
	registros map[string][]planilha.Registro
	falha     error
}

func (l *legadoFake) Read(tenantSlug, colecao string) ([]planilha.Registro, error) {
	if l.falha != nil {
		return nil, l.falha
	}
	return l.registros[tenantSlug+"/"+colecao], nil
}

func (l *legadoFake) Write(tenantSlug, colecao string, registros []planilha.Registro) error {
	if l.registros == nil {
		l.registros = map[string][]planilha.Registro{}
	}
	l.registros[tenantSlug+"/"+colecao] = registros
	return nil
}

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

func TestSincronizarCopiaDoLegado(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	legado := &legadoFake{}
	require.NoError(t, legado.Write(tc.Slug, "customers", []planilha.Registro{
		{"id": "cli-1", "name": "Joana", "email": "joana@example.com", "phone": "11999990000"},
	}))

	rc := NewReconciler(db, legado, zap.NewNop())
	rc.SincronizarClienteDoLegado(tc, "cli-1")

	var migrado Customer
	require.NoError(t, db.Where("id = ?", "cli-1").First(&migrado).Error)
	assert.Equal(t, "Joana", migrado.Nome)
	assert.Equal(t, "joana@example.com", migrado.Email)
	assert.Equal(t, tc.ID, migrado.TenantID)
}

func TestSincronizarNaoDuplicaExistente(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	require.NoError(t, db.Create(&Customer{ID: "cli-1", TenantID: tc.ID, Nome: "Original"}).Error)

	legado := &legadoFake{}
	require.NoError(t, legado.Write(tc.Slug, "customers", []planilha.Registro{
		{"id": "cli-1", "name": "Versão do legado"},
	}))

	rc := NewReconciler(db, legado, zap.NewNop())
	rc.SincronizarClienteDoLegado(tc, "cli-1")

	var cli Customer
	require.NoError(t, db.Where("id = ?", "cli-1").First(&cli).Error)
	assert.Equal(t, "Original", cli.Nome, "o registro relacional não é sobrescrito")
}

func TestSincronizarAusenteNoLegadoNaoFalha(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	rc := NewReconciler(db, &legadoFake{}, zap.NewNop())
	rc.SincronizarClienteDoLegado(tc, "cli-inexistente")

	var total int64
	db.Model(&Customer{}).Count(&total)
	assert.EqualValues(t, 0, total)
}

func TestSincronizarComLegadoQuebradoNaoFalha(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	rc := NewReconciler(db, &legadoFake{falha: errors.New("disco cheio")}, zap.NewNop())
	rc.SincronizarClienteDoLegado(tc, "cli-1")

	var total int64
	db.Model(&Customer{}).Count(&total)
	assert.EqualValues(t, 0, total)
}

func TestSincronizarLeadCopiaDoLegado(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	legado := &legadoFake{}
	require.NoError(t, legado.Write(tc.Slug, "leads", []planilha.Registro{
		{"id": "lead-1", "name": "Carla", "email": "carla@example.com", "phone": "11988880000", "status": "contacted", "value": 350.00},
	}))

	rc := NewReconciler(db, legado, zap.NewNop())
	rc.SincronizarLeadDoLegado(tc, "lead-1")

	var migrado Lead
	require.NoError(t, db.Where("id = ?", "lead-1").First(&migrado).Error)
	assert.Equal(t, "Carla", migrado.Nome)
	assert.Equal(t, "contacted", migrado.Status)
	assert.Equal(t, 350.00, migrado.Valor)
	assert.Equal(t, tc.ID, migrado.TenantID)
}

func TestSincronizarLeadNaoDuplicaExistente(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	require.NoError(t, db.Create(&Lead{ID: "lead-1", TenantID: tc.ID, Nome: "Original", Status: "won"}).Error)

	legado := &legadoFake{}
	require.NoError(t, legado.Write(tc.Slug, "leads", []planilha.Registro{
		{"id": "lead-1", "name": "Versão do legado", "status": "new"},
	}))

	rc := NewReconciler(db, legado, zap.NewNop())
	rc.SincronizarLeadDoLegado(tc, "lead-1")

	var lead Lead
	require.NoError(t, db.Where("id = ?", "lead-1").First(&lead).Error)
	assert.Equal(t, "Original", lead.Nome, "o registro relacional não é sobrescrito")
	assert.Equal(t, "won", lead.Status)
}

func TestSincronizarUsaChaveNomeLegada(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}

	legado := &legadoFake{}
	require.NoError(t, legado.Write(tc.Slug, "customers", []planilha.Registro{
		{"id": "cli-2", "nome": "Marcos"},
	}))

	rc := NewReconciler(db, legado, zap.NewNop())
	rc.SincronizarClienteDoLegado(tc, "cli-2")

	var migrado Customer
	require.NoError(t, db.Where("id = ?", "cli-2").First(&migrado).Error)
	assert.Equal(t, "Marcos", migrado.Nome)
}
