package calendario

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/crmaster/api-crm/internal/tenant"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleAdapter publica e lê eventos via Google Calendar. Sem arquivo de
// credenciais o adapter fica desabilitado e todas as chamadas retornam
// erro; o chamador já trata isso como "calendário indisponível".
type GoogleAdapter struct {
	arquivoCredenciais string
	log                *zap.Logger
}

// NewGoogleAdapter cria o adapter apontando para o JSON de credenciais
// de service account.
func NewGoogleAdapter(arquivoCredenciais string, log *zap.Logger) *GoogleAdapter {
	return &GoogleAdapter{arquivoCredenciais: arquivoCredenciais, log: log}
}

func (g *GoogleAdapter) servico(ctx context.Context) (*calendar.Service, error) {
	if g.arquivoCredenciais == "" {
		return nil, fmt.Errorf("calendario: credenciais não configuradas")
	}
	dados, err := os.ReadFile(g.arquivoCredenciais)
	if err != nil {
		return nil, fmt.Errorf("calendario: lendo credenciais: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, dados, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("calendario: credenciais inválidas: %w", err)
	}
	return calendar.NewService(ctx, option.WithCredentials(creds))
}

// calendarioDoTenant escolhe a agenda do tenant. Hoje cada tenant usa a
// agenda primária da conta de serviço; slug fica no campo de origem dos
// eventos para permitir separar depois.
func (g *GoogleAdapter) calendarioDoTenant(tenant.Context) string {
	return "primary"
}

// Push envia o evento para o calendário externo.
func (g *GoogleAdapter) Push(tc tenant.Context, ev Evento) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, err := g.servico(ctx)
	if err != nil {
		return err
	}

	item := &calendar.Event{
		Summary:     ev.Titulo,
		Description: ev.Descricao,
		Start:       &calendar.EventDateTime{DateTime: ev.Inicio.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.Fim.Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{"tenant": tc.Slug, "crm_id": ev.ID},
		},
	}
	_, err = svc.Events.Insert(g.calendarioDoTenant(tc), item).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("calendario: push falhou: %w", err)
	}
	g.log.Info("calendario: evento publicado",
		zap.String("tenant", tc.Slug), zap.String("titulo", ev.Titulo))
	return nil
}

// Pull lê os próximos eventos do calendário externo do tenant.
func (g *GoogleAdapter) Pull(tc tenant.Context) ([]Evento, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, err := g.servico(ctx)
	if err != nil {
		return nil, err
	}

	lista, err := svc.Events.List(g.calendarioDoTenant(tc)).
		TimeMin(time.Now().AddDate(0, -1, 0).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendario: pull falhou: %w", err)
	}

	eventos := make([]Evento, 0, len(lista.Items))
	for _, item := range lista.Items {
		if item.Start == nil || item.Start.DateTime == "" {
			continue // eventos de dia inteiro ficam fora da agenda
		}
		inicio, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		fim := inicio
		if item.End != nil && item.End.DateTime != "" {
			if f, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				fim = f
			}
		}
		eventos = append(eventos, Evento{
			ID:        item.Id,
			Titulo:    item.Summary,
			Descricao: item.Description,
			Inicio:    inicio,
			Fim:       fim,
			Origem:    "google",
		})
	}
	return eventos, nil
}
