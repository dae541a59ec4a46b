package financeiro

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/auth"
	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// criarLancamentoRequest é o payload de criação de lançamento avulso.
type criarLancamentoRequest struct {
	DataVencimento string  `json:"data_vencimento"` // YYYY-MM-DD
	Descricao      string  `json:"descricao"`
	Tipo           string  `json:"tipo"`
	Valor          float64 `json:"valor"`
	Status         string  `json:"status"`
	Origem         string  `json:"origem"`
	LeadID         *string `json:"lead_id"`
	CustomerID     *string `json:"customer_id"`
	Categoria      *string `json:"categoria"`
	FormaPagamento string  `json:"forma_pagamento"`
	Parcelas       int     `json:"parcelas"`
	Observacoes    string  `json:"observacoes"`
}

// Handler expõe os lançamentos financeiros, categorias e relatórios.
type Handler struct {
	Repo *Repository
}

// NewHandler retorna um handler inicializado.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

// Listar retorna os lançamentos do tenant (promovendo atrasados na leitura).
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	entries, err := h.Repo.ListarPorTenant(tc)
	if err != nil {
		http.Error(w, "erro ao listar lançamentos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Criar registra um lançamento avulso, com suporte a parcelamento mensal.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var req criarLancamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if req.Descricao == "" || req.Tipo == "" {
		http.Error(w, "campos 'descricao' e 'tipo' são obrigatórios", http.StatusBadRequest)
		return
	}
	vencimento, err := time.Parse("2006-01-02", req.DataVencimento)
	if err != nil {
		http.Error(w, "data_vencimento inválida (esperado YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = StatusPendente
	}
	origem := req.Origem
	if origem == "" {
		origem = OrigemAvulso
	}

	base := FinanceEntry{
		TenantID:       tc.ID,
		LeadID:         req.LeadID,
		CustomerID:     req.CustomerID,
		CategoryID:     req.Categoria,
		Tipo:           req.Tipo,
		Descricao:      req.Descricao,
		Origem:         origem,
		Valor:          req.Valor,
		DueDate:        vencimento,
		Status:         status,
		FormaPagamento: req.FormaPagamento,
		Observacoes:    req.Observacoes,
	}

	criadas, err := h.Repo.CriarParcelado(base, req.Parcelas)
	if err != nil {
		http.Error(w, "erro ao salvar lançamento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(criadas[0])
}

// AtualizarStatus troca status/forma de pagamento de um lançamento.
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	id := mux.Vars(r)["id"]

	var payload struct {
		Status         string `json:"status"`
		FormaPagamento string `json:"forma_pagamento"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if payload.Status == "" {
		http.Error(w, "o campo 'status' é obrigatório", http.StatusBadRequest)
		return
	}

	if err := h.Repo.AtualizarStatus(tc, id, payload.Status, payload.FormaPagamento); err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}

	entry, err := h.Repo.BuscarPorID(tc, id)
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// Deletar remove um lançamento.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	if err := h.Repo.Deletar(tc, mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListarCategorias retorna as categorias ativas do tenant.
func (h *Handler) ListarCategorias(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	cats, err := h.Repo.ListarCategorias(tc)
	if err != nil {
		http.Error(w, "erro ao listar categorias", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cats)
}

// CriarCategoria cadastra uma categoria financeira.
func (h *Handler) CriarCategoria(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var payload struct {
		Nome string `json:"nome"`
		Tipo string `json:"tipo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Nome == "" {
		http.Error(w, "campo 'nome' é obrigatório", http.StatusBadRequest)
		return
	}
	if payload.Tipo == "" {
		payload.Tipo = "ambos"
	}

	cat := FinanceCategory{TenantID: tc.ID, Nome: payload.Nome, Tipo: payload.Tipo, Ativo: true}
	if err := h.Repo.DB.Create(&cat).Error; err != nil {
		http.Error(w, "erro ao salvar categoria", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cat)
}

// DeletarCategoria desativa uma categoria (soft delete).
func (h *Handler) DeletarCategoria(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	res := h.Repo.DB.Model(&FinanceCategory{}).
		Where("id = ? AND tenant_id = ?", mux.Vars(r)["id"], tc.ID).
		Update("active", false)
	if res.Error != nil {
		http.Error(w, "erro ao remover categoria", http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "categoria não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RelatorioFluxoCaixa agrega receitas/despesas pagas dos últimos 6 meses.
func (h *Handler) RelatorioFluxoCaixa(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var entries []FinanceEntry
	err := h.Repo.DB.
		Where("tenant_id = ? AND status = ?", tc.ID, StatusPago).
		Find(&entries).Error
	if err != nil {
		http.Error(w, "erro ao montar relatório", http.StatusInternalServerError)
		return
	}

	type linha struct {
		Name     string  `json:"name"`
		Receitas float64 `json:"receitas"`
		Despesas float64 `json:"despesas"`
		Saldo    float64 `json:"saldo"`
	}

	agora := time.Now()
	relatorio := make([]linha, 0, 6)
	for i := 5; i >= 0; i-- {
		mes := agora.AddDate(0, -i, 0).Format("2006-01")
		var receitas, despesas float64
		for _, e := range entries {
			if e.DueDate.Format("2006-01") != mes {
				continue
			}
			switch e.Tipo {
			case TipoReceita:
				receitas += e.Valor
			case TipoDespesa:
				despesas += e.Valor
			}
		}
		relatorio = append(relatorio, linha{
			Name:     mes,
			Receitas: receitas,
			Despesas: despesas,
			Saldo:    arredondar2(receitas - despesas),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(relatorio)
}

// Exportar gera a planilha .xlsx com todos os lançamentos do tenant.
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var entries []FinanceEntry
	if err := h.Repo.DB.Where("tenant_id = ?", tc.ID).Find(&entries).Error; err != nil {
		http.Error(w, "erro ao exportar", http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const aba = "Financeiro"
	idx, err := f.NewSheet(aba)
	if err != nil {
		http.Error(w, "erro ao montar planilha", http.StatusInternalServerError)
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	cabecalho := []string{"Data Vencimento", "Descrição", "Tipo", "Valor", "Status", "Origem", "Método Pagamento"}
	for i, titulo := range cabecalho {
		celula, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(aba, celula, titulo)
	}
	for n, e := range entries {
		linha := n + 2
		_ = f.SetCellValue(aba, fmt.Sprintf("A%d", linha), e.DueDate.Format("2006-01-02"))
		_ = f.SetCellValue(aba, fmt.Sprintf("B%d", linha), e.Descricao)
		_ = f.SetCellValue(aba, fmt.Sprintf("C%d", linha), e.Tipo)
		_ = f.SetCellValue(aba, fmt.Sprintf("D%d", linha), e.Valor)
		_ = f.SetCellValue(aba, fmt.Sprintf("E%d", linha), e.Status)
		_ = f.SetCellValue(aba, fmt.Sprintf("F%d", linha), e.Origem)
		_ = f.SetCellValue(aba, fmt.Sprintf("G%d", linha), e.FormaPagamento)
	}

	nomeArquivo := fmt.Sprintf("financeiro_%s_%s.xlsx", tc.Slug, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+nomeArquivo)
	if err := f.Write(w); err != nil {
		http.Error(w, "erro ao gravar planilha", http.StatusInternalServerError)
	}
}
