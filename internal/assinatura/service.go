package assinatura

import (
	"errors"
	"time"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/catalogo"
	"github.com/crmaster/api-crm/internal/cliente"
	"github.com/crmaster/api-crm/internal/comissao"
	"github.com/crmaster/api-crm/internal/financeiro"
	"github.com/crmaster/api-crm/internal/tenant"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service cuida do ciclo de vida das assinaturas: criação com contrato,
// ativação com primeira cobrança e comissão, cancelamento.
type Service struct {
	DB         *gorm.DB
	Catalogo   *catalogo.Resolver
	Financeiro *financeiro.Repository
	Comissoes  *comissao.Calculator
	Contratos  *GeradorContrato
	Log        *zap.Logger
}

// NewService monta o serviço com suas dependências.
func NewService(db *gorm.DB, cat *catalogo.Resolver, fin *financeiro.Repository,
	com *comissao.Calculator, contratos *GeradorContrato, log *zap.Logger) *Service {
	return &Service{DB: db, Catalogo: cat, Financeiro: fin, Comissoes: com, Contratos: contratos, Log: log}
}

// CriarAssinaturaRequest é o corpo de POST /tenant/subscriptions.
type CriarAssinaturaRequest struct {
	CustomerID     string  `json:"customer_id"`
	PlanID         string  `json:"plan_id"`
	ProfessionalID *string `json:"professional_id,omitempty"`
	DataInicio     string  `json:"data_inicio,omitempty"`
}

// Criar valida o plano, grava a assinatura pendente e gera o contrato em
// PDF. A falha na geração do PDF não derruba a assinatura: o contrato
// pode ser regerado depois.
func (s *Service) Criar(tc tenant.Context, req CriarAssinaturaRequest) (*Subscription, error) {
	if req.CustomerID == "" {
		return nil, apperr.Validation("customer_id é obrigatório")
	}
	if req.PlanID == "" {
		return nil, apperr.Validation("plan_id é obrigatório")
	}

	plano, err := s.Catalogo.BuscarPlano(tc, req.PlanID)
	if err != nil {
		return nil, err
	}

	var clienteRel cliente.Customer
	err = s.DB.Where("id = ? AND tenant_id = ?", req.CustomerID, tc.ID).First(&clienteRel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Cliente")
		}
		return nil, err
	}

	inicio := time.Now()
	if req.DataInicio != "" {
		inicio, err = time.ParseInLocation("2006-01-02", req.DataInicio, time.Local)
		if err != nil {
			return nil, apperr.Validation("data_inicio inválida: %s", req.DataInicio)
		}
	}

	sub := &Subscription{
		TenantID:       tc.ID,
		CustomerID:     clienteRel.ID,
		PlanID:         plano.ID,
		ProfessionalID: req.ProfessionalID,
		Valor:          plano.ValorBase,
		Status:         StatusPendente,
		DataInicio:     inicio,
	}
	if err := s.DB.Create(sub).Error; err != nil {
		return nil, err
	}

	if s.Contratos != nil {
		caminho, err := s.Contratos.Gerar(tc, sub, plano, clienteRel.Nome)
		if err != nil {
			s.Log.Warn("assinatura: geração de contrato falhou",
				zap.String("tenant", tc.Slug), zap.String("assinatura", sub.ID), zap.Error(err))
		} else {
			sub.CaminhoPDF = caminho
			if err := s.DB.Model(sub).Update("contract_path", caminho).Error; err != nil {
				s.Log.Warn("assinatura: falha ao gravar caminho do contrato",
					zap.String("assinatura", sub.ID), zap.Error(err))
			}
		}
	}

	return sub, nil
}

// Assinar ativa a assinatura: status ativa, primeira cobrança no livro
// financeiro e comissão para o profissional vinculado. Tudo numa
// transação; repetir a chamada numa assinatura já ativa é um no-op.
func (s *Service) Assinar(tc tenant.Context, id string) (*Subscription, error) {
	var sub Subscription
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND tenant_id = ?", id, tc.ID).First(&sub).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Assinatura")
			}
			return err
		}
		if sub.Status == StatusAtiva {
			return nil
		}
		if sub.Status == StatusCancelada {
			return apperr.Validation("assinatura cancelada não pode ser ativada")
		}

		agora := time.Now()
		sub.Status = StatusAtiva
		sub.DataAtivacao = &agora
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		fin := s.Financeiro.WithDB(tx)
		cat, err := fin.GarantirCategoria(tc, "Assinaturas", financeiro.TipoReceita)
		if err != nil {
			return err
		}
		entry := &financeiro.FinanceEntry{
			TenantID:       tc.ID,
			CustomerID:     &sub.CustomerID,
			CategoryID:     &cat.ID,
			SubscriptionID: &sub.ID,
			Tipo:           financeiro.TipoReceita,
			Descricao:      "Assinatura de plano",
			Origem:         financeiro.OrigemAssinatura,
			Valor:          sub.Valor,
			DueDate:        sub.DataInicio,
			Status:         financeiro.StatusPendente,
		}
		if err := fin.Criar(entry); err != nil {
			return err
		}

		if sub.ProfessionalID != nil {
			ev := comissao.EventoFaturavel{
				AssinaturaID:   sub.ID,
				ProfissionalID: *sub.ProfessionalID,
				ValorBase:      sub.Valor,
				Data:           agora,
			}
			if _, err := s.Comissoes.WithDB(tx).CalcularParaAssinatura(tc, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancelar marca a assinatura como cancelada.
func (s *Service) Cancelar(tc tenant.Context, id string) error {
	res := s.DB.Model(&Subscription{}).
		Where("id = ? AND tenant_id = ?", id, tc.ID).
		Update("status", StatusCancelada)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Assinatura")
	}
	return nil
}

// Listar retorna as assinaturas do tenant.
func (s *Service) Listar(tc tenant.Context) ([]Subscription, error) {
	var subs []Subscription
	err := s.DB.Where("tenant_id = ?", tc.ID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}
