package profissional

import (
	"encoding/json"
	"net/http"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/auth"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarProfissionalRequest struct {
	Nome                 string  `json:"name"`
	Email                string  `json:"email"`
	Telefone             string  `json:"phone"`
	Especialidade        string  `json:"specialty"`
	CommissionPercentage float64 `json:"commission_percentage"`
	Ativo                *bool   `json:"active"`
}

// Handler expõe o CRUD de profissionais.
type Handler struct {
	Repo *Repository
}

// NewHandler retorna um handler inicializado.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

// Listar retorna todos os profissionais do tenant.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	list, err := h.Repo.ListarPorTenant(tc)
	if err != nil {
		http.Error(w, "erro ao listar profissionais", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// BuscarPorID retorna um profissional pelo ID.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	p, err := h.Repo.BuscarPorID(tc, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Criar cadastra um novo profissional.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var req criarProfissionalRequest
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
	p := Professional{
		TenantID:             tc.ID,
		Nome:                 req.Nome,
		Email:                req.Email,
		Telefone:             req.Telefone,
		Especialidade:        req.Especialidade,
		CommissionPercentage: req.CommissionPercentage,
		Ativo:                ativo,
	}
	if err := h.Repo.Salvar(&p); err != nil {
		http.Error(w, "erro ao salvar profissional", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// Atualizar altera dados de um profissional existente.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	p, err := h.Repo.BuscarPorID(tc, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}

	var req criarProfissionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	if req.Nome != "" {
		p.Nome = req.Nome
	}
	p.Email = req.Email
	p.Telefone = req.Telefone
	p.Especialidade = req.Especialidade
	p.CommissionPercentage = req.CommissionPercentage
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}

	if err := h.Repo.Atualizar(p); err != nil {
		http.Error(w, "erro ao atualizar profissional", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Deletar remove um profissional.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	if err := h.Repo.Deletar(tc, mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
