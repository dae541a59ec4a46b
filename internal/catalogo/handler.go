package catalogo

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/auth"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// criarServicoRequest é o payload de criação/atualização de serviço.
// A API expõe "value"; internamente o preço vive em products.price.
type criarServicoRequest struct {
	Nome           string  `json:"name"`
	Descricao      string  `json:"description"`
	DuracaoMinutos int     `json:"duration_minutes"`
	Valor          float64 `json:"value"`
	Ativo          *bool   `json:"active"`
}

// Handler expõe o CRUD de serviços do catálogo.
type Handler struct {
	DB *gorm.DB
}

// NewHandler retorna um handler inicializado.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// ListarServicos retorna os serviços ativos do tenant.
func (h *Handler) ListarServicos(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var servicos []Product
	err := h.DB.
		Where("tenant_id = ? AND type = ? AND active = ?", tc.ID, "service", true).
		Order("name").
		Find(&servicos).Error
	if err != nil {
		http.Error(w, "erro ao listar serviços", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(servicos)
}

// CriarServico cadastra um novo serviço com SKU gerado.
func (h *Handler) CriarServico(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var req criarServicoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if req.Nome == "" {
		http.Error(w, "campo 'name' é obrigatório", http.StatusBadRequest)
		return
	}

	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	duracao := req.DuracaoMinutos
	if duracao <= 0 {
		duracao = 30
	}

	p := Product{
		TenantID:       tc.ID,
		Nome:           req.Nome,
		Descricao:      req.Descricao,
		SKU:            gerarSKU(),
		Tipo:           "service",
		DuracaoMinutos: duracao,
		Preco:          req.Valor,
		Ativo:          ativo,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		http.Error(w, "erro ao salvar serviço", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// AtualizarServico altera um serviço existente do tenant.
func (h *Handler) AtualizarServico(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	id := mux.Vars(r)["id"]

	var p Product
	if err := h.DB.Where("id = ? AND tenant_id = ?", id, tc.ID).First(&p).Error; err != nil {
		http.Error(w, "serviço não encontrado", http.StatusNotFound)
		return
	}

	var req criarServicoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	p.Nome = req.Nome
	p.Descricao = req.Descricao
	if req.DuracaoMinutos > 0 {
		p.DuracaoMinutos = req.DuracaoMinutos
	}
	p.Preco = req.Valor
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}

	if err := h.DB.Save(&p).Error; err != nil {
		http.Error(w, "erro ao atualizar serviço", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// DeletarServico desativa o serviço (soft delete via active=false).
func (h *Handler) DeletarServico(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	id := mux.Vars(r)["id"]

	res := h.DB.Model(&Product{}).
		Where("id = ? AND tenant_id = ?", id, tc.ID).
		Update("active", false)
	if res.Error != nil {
		http.Error(w, "erro ao remover serviço", http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, apperr.NotFound("Serviço").Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// gerarSKU gera um SKU curto "S-XXXXXX" para serviços.
func gerarSKU() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sku := make([]byte, 6)
	for i := range sku {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			sku[i] = 'X'
			continue
		}
		sku[i] = chars[n.Int64()]
	}
	return "S-" + string(sku)
}
