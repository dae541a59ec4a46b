package comissao

import (
	"fmt"
	"testing"
	"time"

	"github.com/crmaster/api-crm/internal/profissional"
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
	require.NoError(t, profissional.Migrate(db))
	require.NoError(t, Migrate(db))
	return db
}

func criarProfissional(t *testing.T, db *gorm.DB, tenantID string, percentual float64) *profissional.Professional {
	t.Helper()
	p := &profissional.Professional{
		TenantID:             tenantID,
		Nome:                 "Ana",
		CommissionPercentage: percentual,
		Ativo:                true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCalcularParaAgendamento(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	prof := criarProfissional(t, db, tc.ID, 20)
	calc := NewCalculator(db)

	ev := EventoFaturavel{
		AgendamentoID:  "ag-1",
		ProfissionalID: prof.ID,
		ValorBase:      100.00,
		Data:           time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	com, err := calc.CalcularParaAgendamento(tc, ev)
	require.NoError(t, err)
	require.NotNil(t, com)
	assert.Equal(t, 100.00, com.ServiceValue)
	assert.Equal(t, 20.00, com.CommissionPercentage)
	assert.Equal(t, 20.00, com.CommissionValue)
	assert.Equal(t, "pending", com.Status)
	require.NotNil(t, com.AppointmentID)
	assert.Equal(t, "ag-1", *com.AppointmentID)
	assert.Nil(t, com.SubscriptionID)
}

func TestCalcularIdempotente(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	prof := criarProfissional(t, db, tc.ID, 10)
	calc := NewCalculator(db)

	ev := EventoFaturavel{
		AgendamentoID:  "ag-1",
		ProfissionalID: prof.ID,
		ValorBase:      150.00,
		Data:           time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	primeira, err := calc.CalcularParaAgendamento(tc, ev)
	require.NoError(t, err)
	segunda, err := calc.CalcularParaAgendamento(tc, ev)
	require.NoError(t, err)

	assert.Equal(t, primeira.ID, segunda.ID)

	var total int64
	db.Model(&Commission{}).Where("tenant_id = ?", tc.ID).Count(&total)
	assert.EqualValues(t, 1, total)

	// o agregado também não pode dobrar
	var perf ProfessionalPerformance
	require.NoError(t, db.Where("tenant_id = ? AND professional_id = ?", tc.ID, prof.ID).First(&perf).Error)
	assert.Equal(t, 1, perf.TotalServices)
	assert.Equal(t, 15.00, perf.TotalCommission)
}

func TestPercentualZeroNaoGeraComissao(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	prof := criarProfissional(t, db, tc.ID, 0)
	calc := NewCalculator(db)

	com, err := calc.CalcularParaAgendamento(tc, EventoFaturavel{
		AgendamentoID:  "ag-1",
		ProfissionalID: prof.ID,
		ValorBase:      100.00,
		Data:           time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, com)

	var total int64
	db.Model(&Commission{}).Count(&total)
	assert.EqualValues(t, 0, total)
}

func TestSemProfissionalNaoGeraComissao(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	calc := NewCalculator(db)

	com, err := calc.CalcularParaAgendamento(tc, EventoFaturavel{
		AgendamentoID: "ag-1",
		ValorBase:     100.00,
		Data:          time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, com)
}

func TestProfissionalDeOutroTenantNaoGeraComissao(t *testing.T) {
	db := abrirBanco(t)
	prof := criarProfissional(t, db, "t-outro", 25)
	calc := NewCalculator(db)

	com, err := calc.CalcularParaAgendamento(tenant.Context{ID: "t1", Slug: "salao-a"}, EventoFaturavel{
		AgendamentoID:  "ag-1",
		ProfissionalID: prof.ID,
		ValorBase:      100.00,
		Data:           time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, com)
}

func TestCalcularParaAssinatura(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	prof := criarProfissional(t, db, tc.ID, 15)
	calc := NewCalculator(db)

	ev := EventoFaturavel{
		AssinaturaID:   "sub-1",
		ProfissionalID: prof.ID,
		ValorBase:      200.00,
		Data:           time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
	}

	com, err := calc.CalcularParaAssinatura(tc, ev)
	require.NoError(t, err)
	require.NotNil(t, com)
	assert.Equal(t, 30.00, com.CommissionValue)
	require.NotNil(t, com.SubscriptionID)
	assert.Equal(t, "sub-1", *com.SubscriptionID)
	assert.Nil(t, com.AppointmentID)

	de_novo, err := calc.CalcularParaAssinatura(tc, ev)
	require.NoError(t, err)
	assert.Equal(t, com.ID, de_novo.ID)
}

func TestPerformanceAcumulaPorPeriodo(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	prof := criarProfissional(t, db, tc.ID, 10)
	calc := NewCalculator(db)

	junho := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	julho := time.Date(2024, 7, 5, 9, 0, 0, 0, time.UTC)

	for i, data := range []time.Time{junho, junho, julho} {
		_, err := calc.CalcularParaAgendamento(tc, EventoFaturavel{
			AgendamentoID:  string(rune('a' + i)),
			ProfissionalID: prof.ID,
			ValorBase:      100.00,
			Data:           data,
		})
		require.NoError(t, err)
	}

	var perfJunho ProfessionalPerformance
	require.NoError(t, db.Where("professional_id = ? AND period = ?", prof.ID, "2024-06").First(&perfJunho).Error)
	assert.Equal(t, 2, perfJunho.TotalServices)
	assert.Equal(t, 200.00, perfJunho.TotalRevenue)
	assert.Equal(t, 20.00, perfJunho.TotalCommission)

	var perfJulho ProfessionalPerformance
	require.NoError(t, db.Where("professional_id = ? AND period = ?", prof.ID, "2024-07").First(&perfJulho).Error)
	assert.Equal(t, 1, perfJulho.TotalServices)
}

func TestInsertConcorrenteDevolveComissaoExistente(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	prof := criarProfissional(t, db, tc.ID, 10)
	calc := NewCalculator(db)

	// simula a outra transação que venceu a corrida: a comissão da fonte
	// já existe quando o insert roda, sem passar pela checagem prévia
	agID := "ag-1"
	vencedora := Commission{
		TenantID:             tc.ID,
		ProfessionalID:       prof.ID,
		AppointmentID:        &agID,
		ServiceValue:         150.00,
		CommissionPercentage: 10,
		CommissionValue:      15.00,
		Status:               "pending",
	}
	require.NoError(t, db.Create(&vencedora).Error)

	com, err := calc.calcular(tc, EventoFaturavel{
		AgendamentoID:  agID,
		ProfissionalID: prof.ID,
		ValorBase:      150.00,
		Data:           time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, com)
	assert.Equal(t, vencedora.ID, com.ID)

	var total int64
	db.Model(&Commission{}).Where("tenant_id = ?", tc.ID).Count(&total)
	assert.EqualValues(t, 1, total)

	// o agregado pertence a quem inseriu; o perdedor não pode incrementá-lo
	var perfs int64
	db.Model(&ProfessionalPerformance{}).Where("tenant_id = ?", tc.ID).Count(&perfs)
	assert.EqualValues(t, 0, perfs)
}

func TestArredondamentoDaComissao(t *testing.T) {
	db := abrirBanco(t)
	tc := tenant.Context{ID: "t1", Slug: "salao-a"}
	prof := criarProfissional(t, db, tc.ID, 33.33)
	calc := NewCalculator(db)

	com, err := calc.CalcularParaAgendamento(tc, EventoFaturavel{
		AgendamentoID:  "ag-1",
		ProfissionalID: prof.ID,
		ValorBase:      99.99,
		Data:           time.Now(),
	})
	require.NoError(t, err)
	require.NotNil(t, com)
	// 99.99 * 33.33 / 100 = 33.326667 -> 33.33
	assert.Equal(t, 33.33, com.CommissionValue)
}
