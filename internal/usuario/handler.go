package usuario

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crmaster/api-crm/internal/apperr"
	"github.com/crmaster/api-crm/internal/auth"
	"github.com/crmaster/api-crm/internal/tenant"
	"github.com/crmaster/api-crm/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler expõe login e gestão de usuários.
type Handler struct {
	Repo    *Repository
	Tenants *tenant.Repository
}

// NewHandler retorna um handler inicializado.
func NewHandler(repo *Repository, tenants *tenant.Repository) *Handler {
	return &Handler{Repo: repo, Tenants: tenants}
}

// LoginRequest é o corpo de POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login gera um JWT para credenciais válidas.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	user, err := h.Repo.BuscarPorEmail(req.Email)
	if err != nil {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	if !utils.CheckSenha(user.Senha, req.Password) {
		http.Error(w, "senha incorreta", http.StatusUnauthorized)
		return
	}

	t, err := h.Tenants.BuscarPorID(user.TenantID)
	if err != nil {
		http.Error(w, "tenant do usuário não encontrado", http.StatusUnauthorized)
		return
	}
	if !t.Ativo {
		http.Error(w, "tenant desativado", http.StatusForbidden)
		return
	}

	token, err := auth.GerarToken(user.ID, user.Email, t.ID, t.Slug, user.Role)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"token": token,
		"user": map[string]string{
			"id":    user.ID,
			"nome":  user.Nome,
			"email": user.Email,
			"role":  user.Role,
		},
		"tenant": map[string]string{
			"id":   t.ID,
			"slug": t.Slug,
			"nome": t.Nome,
		},
	})
}

type criarUsuarioRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Criar cadastra um usuário no tenant do chamador.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)

	var req criarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	hash, err := utils.HashSenha(req.Password)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &User{
		TenantID: tc.ID,
		Nome:     req.Nome,
		Email:    req.Email,
		Senha:    hash,
		Role:     role,
		Ativo:    true,
	}
	if err := h.Repo.Salvar(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "email já cadastrado", http.StatusConflict)
			return
		}
		http.Error(w, "erro ao criar usuário", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Listar responde GET /tenant/users.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	usuarios, err := h.Repo.ListarPorTenant(tc)
	if err != nil {
		http.Error(w, "erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usuarios)
}

// Desativar responde DELETE /tenant/users/{id}.
func (h *Handler) Desativar(w http.ResponseWriter, r *http.Request) {
	tc := auth.TenantDoContexto(r)
	if err := h.Repo.Desativar(tc, mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), apperr.StatusHTTP(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
