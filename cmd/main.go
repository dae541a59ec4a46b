package main

import (
	"net/http"

	"github.com/crmaster/api-crm/internal/agendamento"
	"github.com/crmaster/api-crm/internal/assinatura"
	"github.com/crmaster/api-crm/internal/auth"
	"github.com/crmaster/api-crm/internal/calendario"
	"github.com/crmaster/api-crm/internal/catalogo"
	"github.com/crmaster/api-crm/internal/cliente"
	"github.com/crmaster/api-crm/internal/comissao"
	"github.com/crmaster/api-crm/internal/config"
	"github.com/crmaster/api-crm/internal/financeiro"
	"github.com/crmaster/api-crm/internal/logger"
	"github.com/crmaster/api-crm/internal/planilha"
	"github.com/crmaster/api-crm/internal/profissional"
	"github.com/crmaster/api-crm/internal/tenant"
	"github.com/crmaster/api-crm/internal/usuario"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init()
	log := logger.Get()
	defer log.Sync()

	auth.SetSecret(cfg.JWTSecret)

	// TranslateError mapeia violações de unicidade do driver para
	// gorm.ErrDuplicatedKey, que os handlers convertem em 409
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("erro ao conectar no banco", zap.Error(err))
	}

	// AutoMigrate para todos os modelos
	for _, migrar := range []func(*gorm.DB) error{
		tenant.Migrate,
		usuario.Migrate,
		catalogo.Migrate,
		profissional.Migrate,
		cliente.Migrate,
		financeiro.Migrate,
		comissao.Migrate,
		agendamento.Migrate,
		assinatura.Migrate,
	} {
		if err := migrar(db); err != nil {
			log.Fatal("erro no AutoMigrate", zap.Error(err))
		}
	}

	// Armazenamento legado em planilhas (um arquivo por tenant)
	legado, err := planilha.NewStore(cfg.DiretorioPlanilhas)
	if err != nil {
		log.Fatal("erro ao preparar diretório de planilhas", zap.Error(err))
	}

	contratos, err := assinatura.NewGeradorContrato(cfg.DiretorioContratos)
	if err != nil {
		log.Fatal("erro ao preparar diretório de contratos", zap.Error(err))
	}

	var agenda calendario.Adapter
	if cfg.GoogleCredentialsFile != "" {
		agenda = calendario.NewGoogleAdapter(cfg.GoogleCredentialsFile, log)
	}

	// Núcleo
	resolverCatalogo := catalogo.NewResolver(db)
	repoFinanceiro := financeiro.NewRepository(db)
	calculadora := comissao.NewCalculator(db)
	reconciler := cliente.NewReconciler(db, legado, log)
	scheduler := agendamento.NewScheduler(db, resolverCatalogo, repoFinanceiro, calculadora, reconciler, agenda, log)
	servicoAssinatura := assinatura.NewService(db, resolverCatalogo, repoFinanceiro, calculadora, contratos, log)

	// Handlers
	repoTenant := tenant.NewRepository(db)
	tenantHandler := tenant.NewHandler(repoTenant)
	usuarioHandler := usuario.NewHandler(usuario.NewRepository(db), repoTenant)
	catalogoHandler := catalogo.NewHandler(db)
	profissionalHandler := profissional.NewHandler(db)
	clienteHandler := cliente.NewHandler(db, legado)
	financeiroHandler := financeiro.NewHandler(db)
	comissaoHandler := comissao.NewHandler(db)
	agendamentoHandler := agendamento.NewHandler(scheduler)
	assinaturaHandler := assinatura.NewHandler(servicoAssinatura)

	// Router
	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/auth/login", usuarioHandler.Login).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Rotas master (operação da plataforma)
	master := r.PathPrefix("/master").Subrouter()
	master.Use(auth.MiddlewareAutenticacao, auth.RequireMaster)
	master.HandleFunc("/tenants", tenantHandler.Listar).Methods("GET")
	master.HandleFunc("/tenants", tenantHandler.Criar).Methods("POST")
	master.HandleFunc("/tenants/{id}", tenantHandler.Buscar).Methods("GET")

	// Rotas do tenant
	api := r.PathPrefix("/tenant").Subrouter()
	api.Use(auth.MiddlewareAutenticacao, auth.RequireTenant)

	// Usuários
	api.HandleFunc("/users", usuarioHandler.Listar).Methods("GET")
	api.HandleFunc("/users", usuarioHandler.Criar).Methods("POST")
	api.HandleFunc("/users/{id}", usuarioHandler.Desativar).Methods("DELETE")

	// Catálogo de serviços
	api.HandleFunc("/services", catalogoHandler.ListarServicos).Methods("GET")
	api.HandleFunc("/services", catalogoHandler.CriarServico).Methods("POST")
	api.HandleFunc("/services/{id}", catalogoHandler.AtualizarServico).Methods("PUT")
	api.HandleFunc("/services/{id}", catalogoHandler.DeletarServico).Methods("DELETE")

	// Profissionais
	api.HandleFunc("/professionals", profissionalHandler.Listar).Methods("GET")
	api.HandleFunc("/professionals", profissionalHandler.Criar).Methods("POST")
	api.HandleFunc("/professionals/{id}", profissionalHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/professionals/{id}", profissionalHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/professionals/{id}", profissionalHandler.Deletar).Methods("DELETE")

	// Clientes e leads
	api.HandleFunc("/customers", clienteHandler.ListarClientes).Methods("GET")
	api.HandleFunc("/customers", clienteHandler.CriarCliente).Methods("POST")
	api.HandleFunc("/leads", clienteHandler.ListarLeads).Methods("GET")
	api.HandleFunc("/leads", clienteHandler.CriarLead).Methods("POST")
	api.HandleFunc("/leads/{id}", clienteHandler.AtualizarLead).Methods("PUT")

	// Agenda
	api.HandleFunc("/appointments", agendamentoHandler.Listar).Methods("GET")
	api.HandleFunc("/appointments", agendamentoHandler.Criar).Methods("POST")
	api.HandleFunc("/appointments/{id}", agendamentoHandler.Buscar).Methods("GET")
	api.HandleFunc("/appointments/{id}", agendamentoHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/appointments/{id}/complete", agendamentoHandler.Concluir).Methods("POST")
	api.HandleFunc("/appointments/{id}", agendamentoHandler.Deletar).Methods("DELETE")

	// Financeiro
	api.HandleFunc("/finance/entries", financeiroHandler.Listar).Methods("GET")
	api.HandleFunc("/finance/entries", financeiroHandler.Criar).Methods("POST")
	api.HandleFunc("/finance/entries/{id}/status", financeiroHandler.AtualizarStatus).Methods("PUT")
	api.HandleFunc("/finance/entries/{id}", financeiroHandler.Deletar).Methods("DELETE")
	api.HandleFunc("/finance/categories", financeiroHandler.ListarCategorias).Methods("GET")
	api.HandleFunc("/finance/categories", financeiroHandler.CriarCategoria).Methods("POST")
	api.HandleFunc("/finance/categories/{id}", financeiroHandler.DeletarCategoria).Methods("DELETE")
	api.HandleFunc("/finance/cashflow", financeiroHandler.RelatorioFluxoCaixa).Methods("GET")
	api.HandleFunc("/finance/export", financeiroHandler.Exportar).Methods("GET")

	// Comissões
	api.HandleFunc("/commissions/dashboard", comissaoHandler.Dashboard).Methods("GET")
	api.HandleFunc("/commissions/professional/{id}", comissaoHandler.EstatisticasProfissional).Methods("GET")

	// Assinaturas
	api.HandleFunc("/subscriptions", assinaturaHandler.Listar).Methods("GET")
	api.HandleFunc("/subscriptions", assinaturaHandler.Criar).Methods("POST")
	api.HandleFunc("/subscriptions/{id}/sign", assinaturaHandler.Assinar).Methods("POST")
	api.HandleFunc("/subscriptions/{id}", assinaturaHandler.Cancelar).Methods("DELETE")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	log.Info("servidor rodando", zap.String("porta", cfg.Porta))
	if err := http.ListenAndServe(":"+cfg.Porta, handler); err != nil {
		log.Fatal("servidor encerrou com erro", zap.Error(err))
	}
}
