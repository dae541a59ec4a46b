package cliente

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/crmaster/api-crm/internal/auth"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler expõe clientes (relacional) e leads (ainda na planilha legada).
type Handler struct {
	DB     *gorm.DB
	Legado LegacyStore
}

// NewHandler retorna um handler inicializado.
func NewHandler(db *gorm.DB, legado LegacyStore) *Handler {
	return &Handler{DB: db, Legado: legado}
}

// ListarClientes retorna os clientes relacionais do tenant.
func (h *Handler) ListarClientes(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	var list []Customer
	if err := h.DB.Where("tenant_id = ?", tc.ID).Order("name").Find(&list).Error; err != nil {
		http.Error(w, "erro ao listar clientes", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// CriarCliente cadastra um cliente na tabela relacional.
func (h *Handler) CriarCliente(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	var c Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	c.ID = ""
	c.TenantID = tc.ID
	if c.Nome == "" {
		http.Error(w, "campo 'name' é obrigatório", http.StatusBadRequest)
		return
	}
	if err := h.DB.Create(&c).Error; err != nil {
		http.Error(w, "erro ao salvar cliente", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// --- Leads: ainda servidos pela planilha legada (migração em andamento) ---

// ListarLeads retorna os leads da planilha do tenant.
func (h *Handler) ListarLeads(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	leads, err := h.Legado.Read(tc.Slug, "leads")
	if err != nil {
		http.Error(w, "erro ao ler leads", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leads)
}

// CriarLead acrescenta um lead à planilha e registra o histórico inicial.
func (h *Handler) CriarLead(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var corpo map[string]any
	if err := json.NewDecoder(r.Body).Decode(&corpo); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	leads, err := h.Legado.Read(tc.Slug, "leads")
	if err != nil {
		http.Error(w, "erro ao ler leads", http.StatusInternalServerError)
		return
	}

	novo := map[string]any{
		"id":         uuid.NewString(),
		"created_at": time.Now().Format(time.RFC3339),
	}
	for k, v := range corpo {
		novo[k] = v
	}

	leads = append(leads, novo)
	if err := h.Legado.Write(tc.Slug, "leads", leads); err != nil {
		http.Error(w, "erro ao gravar leads", http.StatusInternalServerError)
		return
	}

	h.registrarHistorico(tc.Slug, novo["id"].(string), "note", "Lead criado no sistema", r)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(novo)
}

// AtualizarLead altera um lead da planilha; mudança de etapa vira histórico.
func (h *Handler) AtualizarLead(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	leadID := mux.Vars(r)["id"]

	var corpo map[string]any
	if err := json.NewDecoder(r.Body).Decode(&corpo); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	leads, err := h.Legado.Read(tc.Slug, "leads")
	if err != nil {
		http.Error(w, "erro ao ler leads", http.StatusInternalServerError)
		return
	}

	idx := -1
	for i, l := range leads {
		if l.String("id") == leadID {
			idx = i
			break
		}
	}
	if idx == -1 {
		http.Error(w, "lead não encontrado", http.StatusNotFound)
		return
	}

	statusAntigo := leads[idx].String("status")
	for k, v := range corpo {
		leads[idx][k] = v
	}
	statusNovo := leads[idx].String("status")

	if err := h.Legado.Write(tc.Slug, "leads", leads); err != nil {
		http.Error(w, "erro ao gravar leads", http.StatusInternalServerError)
		return
	}

	if statusNovo != "" && statusAntigo != "" && statusNovo != statusAntigo {
		h.registrarHistorico(tc.Slug, leadID, "stage_change",
			"Mudança de etapa: "+statusAntigo+" -> "+statusNovo, r)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leads[idx])
}

func (h *Handler) registrarHistorico(slug, leadID, tipo, descricao string, r *http.Request) {
	usuario, _ := r.Context().Value(auth.CtxUserID).(string)
	historico, err := h.Legado.Read(slug, "lead_history")
	if err != nil {
		return
	}
	historico = append(historico, map[string]any{
		"id":          uuid.NewString(),
		"lead_id":     leadID,
		"type":        tipo,
		"description": descricao,
		"user_name":   usuario,
		"created_at":  time.Now().Format(time.RFC3339),
	})
	_ = h.Legado.Write(slug, "lead_history", historico)
}
