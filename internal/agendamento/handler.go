package agendamento

import (
	"encoding/json"
	"net/http"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/auth"
	"github.com/gorilla/mux"
)

// Handler expõe a agenda no roteador HTTP.
type Handler struct {
	Scheduler *Scheduler
}

// NewHandler retorna um handler inicializado.
func NewHandler(s *Scheduler) *Handler {
	return &Handler{Scheduler: s}
}

// Listar responde GET /tenant/appointments. Com ?merge_calendar=true a
// resposta inclui os eventos do calendário externo mesclados.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	if r.URL.Query().Get("merge_calendar") == "true" {
		eventos, err := h.Scheduler.ListarComCalendario(tc)
		if err != nil {
			http.Error(w, "erro ao listar agendamentos", apperr.StatusHTTP(err))
			return
		}
		responderJSON(w, http.StatusOK, eventos)
		return
	}

	ags, err := h.Scheduler.Listar(tc)
	if err != nil {
		http.Error(w, "erro ao listar agendamentos", apperr.StatusHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, ags)
}

// Buscar responde GET /tenant/appointments/{id}.
func (h *Handler) Buscar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	ag, err := h.Scheduler.BuscarPorID(tc, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, ag)
}

// Criar responde POST /tenant/appointments.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var req CriarAgendamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	ag, err := h.Scheduler.Criar(tc, req)
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, ag)
}

// Atualizar responde PUT /tenant/appointments/{id}.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var req AtualizarAgendamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	ag, err := h.Scheduler.Atualizar(tc, mux.Vars(r)["id"], req)
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, ag)
}

// Concluir responde POST /tenant/appointments/{id}/complete.
func (h *Handler) Concluir(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	ag, err := h.Scheduler.Concluir(tc, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, ag)
}

// Deletar responde DELETE /tenant/appointments/{id}.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	if err := h.Scheduler.Deletar(tc, mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func responderJSON(w http.ResponseWriter, status int, corpo any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(corpo)
}
