package tenant

import (
	"encoding/json"
	"net/http"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/gorilla/mux"
)

// Handler expõe o provisionamento de tenants (somente para o papel master).
type Handler struct {
	Repo *Repository
}

// NewHandler retorna um handler inicializado.
func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// Listar responde GET /master/tenants.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Repo.ListarTodos()
	if err != nil {
		http.Error(w, "erro ao listar tenants", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tenants)
}

// Criar responde POST /master/tenants.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var t Tenant
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if t.Nome == "" || t.Slug == "" {
		http.Error(w, "nome e slug são obrigatórios", http.StatusBadRequest)
		return
	}
	t.Ativo = true

	if err := h.Repo.Salvar(&t); err != nil {
		http.Error(w, "erro ao criar tenant", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

// Buscar responde GET /master/tenants/{id}.
func (h *Handler) Buscar(w http.ResponseWriter, r *http.Request) {
	t, err := h.Repo.BuscarPorID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}
