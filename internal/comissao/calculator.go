package comissao

import (
	"errors"
	"time"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/profissional"
	"github.com/crmaster/api-crm/internal/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventoFaturavel descreve a origem de uma comissão: um agendamento
// concluído ou uma assinatura ativada. Exatamente um dos IDs de fonte é
// preenchido.
type EventoFaturavel struct {
	AgendamentoID  string
	AssinaturaID   string
	ProfissionalID string
	ServicoID      string
	ValorBase      float64
	// Data do evento; define o período (YYYY-MM) do agregado.
	Data time.Time
}

// Calculator calcula comissões com garantia de no máximo uma por fonte.
// Repetir o cálculo para a mesma fonte devolve o registro existente.
type Calculator struct {
	DB *gorm.DB
}

// NewCalculator cria um Calculator.
func NewCalculator(db *gorm.DB) *Calculator {
	return &Calculator{DB: db}
}

// WithDB retorna uma cópia usando um *gorm.DB específico (ex.: a transação
// do chamador — o agregado precisa andar junto da comissão).
func (c *Calculator) WithDB(db *gorm.DB) *Calculator {
	if db == nil {
		db = c.DB
	}
	return &Calculator{DB: db}
}

// CalcularParaAgendamento calcula a comissão de um agendamento concluído.
// Retorna (nil, nil) quando não há comissão a dever: sem profissional ou
// percentual <= 0 — isso não é erro.
func (c *Calculator) CalcularParaAgendamento(tc tenant.Context, ev EventoFaturavel) (*Commission, error) {
	if ev.AgendamentoID == "" {
		return nil, errors.New("comissao: agendamento sem ID")
	}

	// idempotência: um cálculo por (tenant, agendamento)
	var existente Commission
	err := c.DB.
		Where("tenant_id = ? AND appointment_id = ?", tc.ID, ev.AgendamentoID).
		First(&existente).Error
	if err == nil {
		return &existente, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return c.calcular(tc, ev)
}

// CalcularParaAssinatura calcula a comissão vinculada a uma assinatura,
// idempotente por (tenant, assinatura). Mutuamente exclusiva com o caminho
// de agendamento.
func (c *Calculator) CalcularParaAssinatura(tc tenant.Context, ev EventoFaturavel) (*Commission, error) {
	if ev.AssinaturaID == "" {
		return nil, errors.New("comissao: assinatura sem ID")
	}

	var existente Commission
	err := c.DB.
		Where("tenant_id = ? AND subscription_id = ?", tc.ID, ev.AssinaturaID).
		First(&existente).Error
	if err == nil {
		return &existente, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return c.calcular(tc, ev)
}

func (c *Calculator) calcular(tc tenant.Context, ev EventoFaturavel) (*Commission, error) {
	if ev.ProfissionalID == "" {
		return nil, nil
	}

	var prof profissional.Professional
	err := c.DB.
		Where("id = ? AND tenant_id = ?", ev.ProfissionalID, tc.ID).
		First(&prof).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// percentual zero ou negativo significa "sem comissão", não erro
	if prof.CommissionPercentage <= 0 {
		return nil, nil
	}

	valorServico := decimal.NewFromFloat(ev.ValorBase)
	percentual := decimal.NewFromFloat(prof.CommissionPercentage)
	valorComissao := valorServico.Mul(percentual).Div(decimal.NewFromInt(100)).Round(2)

	nova := Commission{
		TenantID:             tc.ID,
		ProfessionalID:       prof.ID,
		ServiceValue:         valorServico.InexactFloat64(),
		CommissionPercentage: prof.CommissionPercentage,
		CommissionValue:      valorComissao.InexactFloat64(),
		Status:               "pending",
	}
	if ev.AgendamentoID != "" {
		nova.AppointmentID = &ev.AgendamentoID
	}
	if ev.AssinaturaID != "" {
		nova.SubscriptionID = &ev.AssinaturaID
	}
	if ev.ServicoID != "" {
		nova.ServiceID = &ev.ServicoID
	}

	// o índice único por fonte é o portão de idempotência: se outra
	// transação inseriu entre a checagem e este ponto, o insert não faz
	// nada e a comissão existente é devolvida no lugar
	res := c.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&nova)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return c.buscarExistente(tc, ev)
	}

	if err := c.atualizarPerformance(tc, prof.ID, periodo(ev.Data), nova.ServiceValue, nova.CommissionValue); err != nil {
		return nil, err
	}
	return &nova, nil
}

// buscarExistente recupera a comissão que venceu a corrida pela fonte do
// evento. O agregado não é tocado: quem inseriu já o incrementou.
func (c *Calculator) buscarExistente(tc tenant.Context, ev EventoFaturavel) (*Commission, error) {
	consulta := c.DB.Where("tenant_id = ?", tc.ID)
	if ev.AgendamentoID != "" {
		consulta = consulta.Where("appointment_id = ?", ev.AgendamentoID)
	} else {
		consulta = consulta.Where("subscription_id = ?", ev.AssinaturaID)
	}

	var existente Commission
	if err := consulta.First(&existente).Error; err != nil {
		return nil, apperr.Integrity("comissão duplicada para a fonte e o registro vencedor não foi encontrado")
	}
	return &existente, nil
}

// atualizarPerformance incrementa (ou cria) o agregado do período. Roda no
// mesmo *gorm.DB da comissão: ou ambos persistem, ou nenhum.
func (c *Calculator) atualizarPerformance(tc tenant.Context, profissionalID, period string, valorServico, valorComissao float64) error {
	var perf ProfessionalPerformance
	err := c.DB.
		Where("tenant_id = ? AND professional_id = ? AND period = ?", tc.ID, profissionalID, period).
		First(&perf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		perf = ProfessionalPerformance{
			TenantID:        tc.ID,
			ProfessionalID:  profissionalID,
			Period:          period,
			TotalServices:   1,
			TotalCustomers:  1,
			TotalRevenue:    valorServico,
			TotalCommission: valorComissao,
		}
		return c.DB.Create(&perf).Error
	}
	if err != nil {
		return err
	}

	perf.TotalServices++
	perf.TotalRevenue = somar2(perf.TotalRevenue, valorServico)
	perf.TotalCommission = somar2(perf.TotalCommission, valorComissao)
	return c.DB.Save(&perf).Error
}

// periodo deriva o período contábil (YYYY-MM) da data do evento.
func periodo(data time.Time) string {
	if data.IsZero() {
		data = time.Now()
	}
	return data.Format("2006-01")
}

func somar2(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}
