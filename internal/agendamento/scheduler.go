package agendamento

import (
	"errors"
	"strings"
	"time"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/calendario"
	"github.com/crmaster/api-crm/internal/catalogo"
	"github.com/crmaster/api-crm/internal/cliente"
	"github.com/crmaster/api-crm/internal/comissao"
	"github.com/crmaster/api-crm/internal/financeiro"
	"github.com/crmaster/api-crm/internal/tenant"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JanelaColisao define o quão perto dois agendamentos não cancelados do
// mesmo tenant podem começar. A checagem não distingue profissional:
// dois profissionais diferentes não conseguem ser marcados no mesmo
// minuto. Comportamento herdado, mantido de propósito.
const JanelaColisao = 59 * time.Second

// CategoriaServicos é a categoria financeira padrão dos lançamentos
// criados pela agenda.
const CategoriaServicos = "Serviços"

// Scheduler orquestra o ciclo de vida dos agendamentos: colisão,
// snapshot de catálogo, decisão de cobrança, lançamento financeiro,
// comissão na conclusão e integrações de melhor esforço.
type Scheduler struct {
	DB         *gorm.DB
	Catalogo   *catalogo.Resolver
	Financeiro *financeiro.Repository
	Comissoes  *comissao.Calculator
	Clientes   *cliente.Reconciler
	Agenda     calendario.Adapter // opcional; nil desabilita a integração
	Log        *zap.Logger
}

// NewScheduler monta o scheduler com suas dependências.
func NewScheduler(db *gorm.DB, cat *catalogo.Resolver, fin *financeiro.Repository,
	com *comissao.Calculator, cli *cliente.Reconciler, cal calendario.Adapter, log *zap.Logger) *Scheduler {
	return &Scheduler{
		DB: db, Catalogo: cat, Financeiro: fin,
		Comissoes: com, Clientes: cli, Agenda: cal, Log: log,
	}
}

// Criar registra um novo agendamento. Toda a sequência — colisão,
// snapshot, cobrança e lançamento financeiro — roda numa transação; o
// push para o calendário externo acontece só depois do commit.
func (s *Scheduler) Criar(tc tenant.Context, req CriarAgendamentoRequest) (*Appointment, error) {
	inicio, err := resolverInicio(req.StartTime, req.Data)
	if err != nil {
		return nil, err
	}
	if req.ServiceID == "" {
		return nil, apperr.Validation("service_id é obrigatório")
	}

	var ag *Appointment
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := verificarColisao(tx, tc, inicio); err != nil {
			return err
		}

		servico, err := s.Catalogo.WithDB(tx).BuscarServico(tc, req.ServiceID)
		if err != nil {
			return err
		}
		duracao := servico.DuracaoMinutos
		if req.DuracaoMinutos != nil {
			duracao = *req.DuracaoMinutos
		}
		valor := servico.Preco
		if req.ValorServico != nil {
			valor = *req.ValorServico
		}

		if req.PlanID != nil {
			if _, err := s.Catalogo.WithDB(tx).BuscarPlano(tc, *req.PlanID); err != nil {
				return err
			}
		}

		if req.CustomerID != nil {
			s.Clientes.WithDB(tx).SincronizarClienteDoLegado(tc, *req.CustomerID)
		}
		if req.LeadID != nil {
			s.Clientes.WithDB(tx).SincronizarLeadDoLegado(tc, *req.LeadID)
		}

		titulo := req.Titulo
		if titulo == "" {
			titulo = servico.Nome
		}

		ag = &Appointment{
			TenantID:       tc.ID,
			CustomerID:     req.CustomerID,
			LeadID:         req.LeadID,
			ProfessionalID: req.ProfessionalID,
			ServiceID:      servico.ID,
			PlanID:         req.PlanID,
			Titulo:         titulo,
			Descricao:      req.Descricao,
			Inicio:         inicio,
			Fim:            inicio.Add(time.Duration(duracao) * time.Minute),
			DuracaoMinutos: duracao,
			ValorServico:   valor,
			Status:         StatusAgendado,
			BillingStatus:  DecidirCobranca(req.PlanID != nil),
		}
		if err := tx.Create(ag).Error; err != nil {
			return err
		}

		if ag.BillingStatus == CobrancaAberta {
			if err := s.criarLancamento(tx, tc, ag); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publicarNoCalendario(tc, ag)
	return ag, nil
}

// criarLancamento cria o lançamento de origem "agenda" do agendamento,
// garantindo que exista no máximo um. A categoria "Serviços" é criada na
// primeira vez que o tenant precisa dela.
func (s *Scheduler) criarLancamento(tx *gorm.DB, tc tenant.Context, ag *Appointment) error {
	fin := s.Financeiro.WithDB(tx)

	if existente, err := fin.BuscarPorAgendamento(tc, ag.ID); err == nil && existente != nil {
		return nil
	} else if err != nil && !apperr.IsNotFound(err) {
		return err
	}

	cat, err := fin.GarantirCategoria(tc, CategoriaServicos, financeiro.TipoReceita)
	if err != nil {
		return err
	}

	entry := &financeiro.FinanceEntry{
		TenantID:      tc.ID,
		CustomerID:    ag.CustomerID,
		LeadID:        ag.LeadID,
		ServiceID:     &ag.ServiceID,
		CategoryID:    &cat.ID,
		AppointmentID: &ag.ID,
		Tipo:          financeiro.TipoReceita,
		Descricao:     "Agendamento: " + ag.Titulo,
		Origem:        financeiro.OrigemAgenda,
		Valor:         ag.ValorServico,
		DueDate:       dataDe(ag.Inicio),
		Status:        financeiro.StatusPendente,
	}
	return fin.Criar(entry)
}

// Atualizar altera um agendamento existente. Mudança de serviço refaz o
// snapshot de duração/valor (override do chamador vence); início ou
// duração novos recalculam o fim. Não refaz a checagem de colisão nem
// corrige o valor de lançamento financeiro já criado.
func (s *Scheduler) Atualizar(tc tenant.Context, id string, req AtualizarAgendamentoRequest) (*Appointment, error) {
	var ag Appointment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := buscarDoTenant(tx, tc, id, &ag); err != nil {
			return err
		}

		if req.StartTime != nil || req.Data != nil {
			st, dt := "", ""
			if req.StartTime != nil {
				st = *req.StartTime
			}
			if req.Data != nil {
				dt = *req.Data
			}
			inicio, err := resolverInicio(st, dt)
			if err != nil {
				return err
			}
			ag.Inicio = inicio
		}

		if req.ServiceID != nil && *req.ServiceID != ag.ServiceID {
			servico, err := s.Catalogo.WithDB(tx).BuscarServico(tc, *req.ServiceID)
			if err != nil {
				return err
			}
			ag.ServiceID = servico.ID
			ag.DuracaoMinutos = servico.DuracaoMinutos
			ag.ValorServico = servico.Preco
		}
		if req.DuracaoMinutos != nil {
			ag.DuracaoMinutos = *req.DuracaoMinutos
		}
		if req.ValorServico != nil {
			ag.ValorServico = *req.ValorServico
		}
		if req.Titulo != nil {
			ag.Titulo = *req.Titulo
		}
		if req.Descricao != nil {
			ag.Descricao = *req.Descricao
		}
		if req.ProfessionalID != nil {
			ag.ProfessionalID = req.ProfessionalID
		}
		if req.CustomerID != nil {
			ag.CustomerID = req.CustomerID
		}

		ag.Fim = ag.Inicio.Add(time.Duration(ag.DuracaoMinutos) * time.Minute)
		return tx.Save(&ag).Error
	})
	if err != nil {
		return nil, err
	}
	return &ag, nil
}

// Concluir marca o agendamento como concluído, dispara a comissão do
// profissional e dá baixa no lançamento financeiro vinculado. Repetir a
// chamada é seguro: um agendamento já concluído volta sem efeito.
func (s *Scheduler) Concluir(tc tenant.Context, id string) (*Appointment, error) {
	var ag Appointment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := buscarDoTenant(tx, tc, id, &ag); err != nil {
			return err
		}
		if ag.Status == StatusConcluido {
			return nil
		}

		ag.Status = StatusConcluido
		if ag.BillingStatus == CobrancaAberta {
			ag.BillingStatus = CobrancaPaga
		}
		if err := tx.Save(&ag).Error; err != nil {
			return err
		}

		if ag.ProfessionalID != nil {
			ev := comissao.EventoFaturavel{
				AgendamentoID:  ag.ID,
				ProfissionalID: *ag.ProfessionalID,
				ServicoID:      ag.ServiceID,
				ValorBase:      ag.ValorServico,
				Data:           ag.Inicio,
			}
			if _, err := s.Comissoes.WithDB(tx).CalcularParaAgendamento(tc, ev); err != nil {
				return err
			}
		}

		fin := s.Financeiro.WithDB(tx)
		entry, err := fin.BuscarPorAgendamento(tc, ag.ID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil
			}
			return err
		}
		if entry.Status != financeiro.StatusPago {
			return fin.AtualizarStatus(tc, entry.ID, financeiro.StatusPago, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ag, nil
}

// Deletar remove o agendamento. Lançamentos financeiros ainda pendentes
// (ou atrasados) vão junto; um lançamento já pago fica, preservando o
// histórico do caixa.
func (s *Scheduler) Deletar(tc tenant.Context, id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var ag Appointment
		if err := buscarDoTenant(tx, tc, id, &ag); err != nil {
			return err
		}

		fin := s.Financeiro.WithDB(tx)
		entry, err := fin.BuscarPorAgendamento(tc, ag.ID)
		if err == nil {
			if entry.Status == financeiro.StatusPendente || entry.Status == financeiro.StatusAtrasado {
				if err := fin.Deletar(tc, entry.ID); err != nil {
					return err
				}
			}
		} else if !apperr.IsNotFound(err) {
			return err
		}

		return tx.Where("id = ? AND tenant_id = ?", ag.ID, tc.ID).Delete(&Appointment{}).Error
	})
}

// BuscarPorID retorna um agendamento do tenant.
func (s *Scheduler) BuscarPorID(tc tenant.Context, id string) (*Appointment, error) {
	var ag Appointment
	if err := buscarDoTenant(s.DB, tc, id, &ag); err != nil {
		return nil, err
	}
	return &ag, nil
}

// Listar retorna os agendamentos do tenant em ordem de início.
func (s *Scheduler) Listar(tc tenant.Context) ([]Appointment, error) {
	var ags []Appointment
	err := s.DB.
		Where("tenant_id = ?", tc.ID).
		Order("start_time ASC").
		Find(&ags).Error
	return ags, err
}

// ListarComCalendario mescla os agendamentos locais com os eventos do
// calendário externo. Falha na integração degrada para a lista local.
func (s *Scheduler) ListarComCalendario(tc tenant.Context) ([]calendario.Evento, error) {
	ags, err := s.Listar(tc)
	if err != nil {
		return nil, err
	}
	locais := make([]calendario.Evento, 0, len(ags))
	for _, ag := range ags {
		locais = append(locais, calendario.Evento{
			ID:        ag.ID,
			Titulo:    ag.Titulo,
			Descricao: ag.Descricao,
			Inicio:    ag.Inicio,
			Fim:       ag.Fim,
			Origem:    "local",
		})
	}

	if s.Agenda == nil {
		return locais, nil
	}
	externos, err := s.Agenda.Pull(tc)
	if err != nil {
		s.Log.Warn("agenda: pull do calendário externo falhou",
			zap.String("tenant", tc.Slug), zap.Error(err))
		return locais, nil
	}
	return calendario.Mesclar(externos, locais), nil
}

// publicarNoCalendario empurra o agendamento para o calendário externo
// depois do commit local. Roda em goroutine própria; falha vira warning.
func (s *Scheduler) publicarNoCalendario(tc tenant.Context, ag *Appointment) {
	if s.Agenda == nil || ag == nil {
		return
	}
	ev := calendario.Evento{
		ID:        ag.ID,
		Titulo:    ag.Titulo,
		Descricao: ag.Descricao,
		Inicio:    ag.Inicio,
		Fim:       ag.Fim,
		Origem:    "local",
	}
	go func() {
		if err := s.Agenda.Push(tc, ev); err != nil {
			s.Log.Warn("agenda: push para o calendário externo falhou",
				zap.String("tenant", tc.Slug), zap.String("agendamento", ag.ID), zap.Error(err))
		}
	}()
}

// verificarColisao rejeita um início a menos de JanelaColisao de outro
// agendamento não cancelado do tenant.
func verificarColisao(tx *gorm.DB, tc tenant.Context, inicio time.Time) error {
	var colisao Appointment
	err := tx.
		Where("tenant_id = ? AND status <> ? AND start_time BETWEEN ? AND ?",
			tc.ID, StatusCancelado, inicio.Add(-JanelaColisao), inicio.Add(JanelaColisao)).
		First(&colisao).Error
	if err == nil {
		return apperr.Conflict("já existe um agendamento neste horário: %s", colisao.Titulo)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func buscarDoTenant(db *gorm.DB, tc tenant.Context, id string, dest *Appointment) error {
	err := db.Where("id = ? AND tenant_id = ?", id, tc.ID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Agendamento")
	}
	return err
}

// resolverInicio aceita um timestamp ISO em startTime ou, no formato
// legado, só a data em data.
func resolverInicio(startTime, data string) (time.Time, error) {
	startTime = strings.TrimSpace(startTime)
	data = strings.TrimSpace(data)

	if startTime != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.ParseInLocation(layout, startTime, time.Local); err == nil {
				return t, nil
			}
		}
		return time.Time{}, apperr.Validation("start_time inválido: %s", startTime)
	}
	if data != "" {
		if t, err := time.ParseInLocation("2006-01-02", data, time.Local); err == nil {
			return t, nil
		}
		return time.Time{}, apperr.Validation("data inválida: %s", data)
	}
	return time.Time{}, apperr.Validation("start_time é obrigatório")
}

func dataDe(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
