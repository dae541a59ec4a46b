package comissao

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/crmaster/api-crm/internal/auth"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler expõe o dashboard de comissões e as métricas por profissional.
type Handler struct {
	DB *gorm.DB
}

// NewHandler retorna um handler inicializado.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type resumoComissoes struct {
	TotalServices   int     `json:"total_services"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCommission float64 `json:"total_commission"`
	AvgCommission   float64 `json:"avg_commission"`
}

type itemRanking struct {
	ProfessionalID   string  `json:"professional_id"`
	ProfessionalName string  `json:"professional_name"`
	TotalCommission  float64 `json:"total_commission"`
	ServicesCount    int     `json:"services_count"`
}

// Dashboard retorna métricas gerais de comissão do tenant no período
// (?period=YYYY-MM, padrão mês corrente) e o ranking de profissionais.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	period := r.URL.Query().Get("period")
	if period == "" {
		period = time.Now().Format("2006-01")
	}
	inicio, fim, err := limitesDoPeriodo(period)
	if err != nil {
		http.Error(w, "period inválido (esperado YYYY-MM)", http.StatusBadRequest)
		return
	}

	var resumo resumoComissoes
	err = h.DB.Model(&Commission{}).
		Select("COUNT(id) AS total_services, COALESCE(SUM(service_value),0) AS total_revenue, COALESCE(SUM(commission_value),0) AS total_commission").
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tc.ID, inicio, fim).
		Scan(&resumo).Error
	if err != nil {
		http.Error(w, "erro ao montar resumo", http.StatusInternalServerError)
		return
	}
	if resumo.TotalServices > 0 {
		resumo.AvgCommission = resumo.TotalCommission / float64(resumo.TotalServices)
	}

	var ranking []itemRanking
	err = h.DB.Table("commissions").
		Select("professionals.id AS professional_id, professionals.name AS professional_name, COALESCE(SUM(commissions.commission_value),0) AS total_commission, COUNT(commissions.id) AS services_count").
		Joins("JOIN professionals ON professionals.id = commissions.professional_id").
		Where("commissions.tenant_id = ? AND commissions.created_at >= ? AND commissions.created_at < ?", tc.ID, inicio, fim).
		Group("professionals.id, professionals.name").
		Order("total_commission DESC").
		Scan(&ranking).Error
	if err != nil {
		http.Error(w, "erro ao montar ranking", http.StatusInternalServerError)
		return
	}
	if ranking == nil {
		ranking = []itemRanking{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"summary": resumo,
		"ranking": ranking,
	})
}

// EstatisticasProfissional retorna métricas acumuladas e as comissões
// recentes de um profissional.
func (h *Handler) EstatisticasProfissional(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	profissionalID := mux.Vars(r)["id"]

	var prof struct {
		Name                 string  `json:"name"`
		CommissionPercentage float64 `json:"commission_percentage"`
	}
	err := h.DB.Table("professionals").
		Select("name, commission_percentage").
		Where("id = ? AND tenant_id = ?", profissionalID, tc.ID).
		Take(&prof).Error
	if err != nil {
		http.Error(w, "profissional não encontrado", http.StatusNotFound)
		return
	}

	var metricas struct {
		TotalServices   int     `json:"total_services"`
		TotalRevenue    float64 `json:"total_revenue"`
		TotalCommission float64 `json:"total_commission"`
		AvgTicket       float64 `json:"avg_ticket"`
	}
	err = h.DB.Model(&Commission{}).
		Select("COUNT(id) AS total_services, COALESCE(SUM(service_value),0) AS total_revenue, COALESCE(SUM(commission_value),0) AS total_commission").
		Where("tenant_id = ? AND professional_id = ?", tc.ID, profissionalID).
		Scan(&metricas).Error
	if err != nil {
		http.Error(w, "erro ao montar métricas", http.StatusInternalServerError)
		return
	}
	if metricas.TotalServices > 0 {
		metricas.AvgTicket = metricas.TotalRevenue / float64(metricas.TotalServices)
	}

	var recentes []Commission
	err = h.DB.
		Where("tenant_id = ? AND professional_id = ?", tc.ID, profissionalID).
		Order("created_at DESC").
		Limit(10).
		Find(&recentes).Error
	if err != nil {
		http.Error(w, "erro ao buscar comissões recentes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"professional":       prof,
		"metrics":            metricas,
		"recent_commissions": recentes,
	})
}

// limitesDoPeriodo converte "YYYY-MM" no intervalo [início, fim).
func limitesDoPeriodo(period string) (time.Time, time.Time, error) {
	inicio, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return inicio, inicio.AddDate(0, 1, 0), nil
}
