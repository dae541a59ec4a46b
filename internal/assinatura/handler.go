package assinatura

import (
	"encoding/json"
	"net/http"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/auth"
	"github.com/gorilla/mux"
)

// Handler expõe as assinaturas no roteador HTTP.
type Handler struct {
	Service *Service
}

// NewHandler retorna um handler inicializado.
func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// Listar responde GET /tenant/subscriptions.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	subs, err := h.Service.Listar(tc)
	if err != nil {
		http.Error(w, "erro ao listar assinaturas", apperr.StatusHTTP(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(subs)
}

// Criar responde POST /tenant/subscriptions.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var req CriarAssinaturaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	sub, err := h.Service.Criar(tc, req)
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sub)
}

// Assinar responde POST /tenant/subscriptions/{id}/sign.
func (h *Handler) Assinar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	sub, err := h.Service.Assinar(tc, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sub)
}

// Cancelar responde DELETE /tenant/subscriptions/{id}.
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	if err := h.Service.Cancelar(tc, mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
