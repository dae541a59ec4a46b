package calendario

import (
	"strings"
	"time"

	"github.com/crmaster/api-crm/internal/tenant"
)

// Evento é a representação neutra de um compromisso trocado com o
// calendário externo.
type Evento struct {
	ID        string    `json:"id,omitempty"`
	Titulo    string    `json:"titulo"`
	Descricao string    `json:"descricao,omitempty"`
	Inicio    time.Time `json:"inicio"`
	Fim       time.Time `json:"fim"`
	Origem    string    `json:"origem"` // "local" ou "google"
}

// Adapter integra a agenda do tenant com um calendário externo. A
// integração é estritamente consultiva: quem chama trata qualquer erro
// como "calendário indisponível" e segue em frente.
type Adapter interface {
	Push(tc tenant.Context, ev Evento) error
	Pull(tc tenant.Context) ([]Evento, error)
}

// ChaveDedup identifica um evento para fins de mesclagem: título em
// minúsculas sem espaços nas pontas + horário de início normalizado em
// UTC truncado no minuto.
func ChaveDedup(titulo string, inicio time.Time) string {
	return strings.ToLower(strings.TrimSpace(titulo)) + "|" +
		inicio.UTC().Truncate(time.Minute).Format(time.RFC3339)
}

// Mesclar junta eventos externos e locais deduplicando pela ChaveDedup.
// Quando o mesmo evento existe nos dois lados, vence o externo.
func Mesclar(externos, locais []Evento) []Evento {
	vistos := make(map[string]bool, len(externos)+len(locais))
	resultado := make([]Evento, 0, len(externos)+len(locais))
	for _, ev := range externos {
		chave := ChaveDedup(ev.Titulo, ev.Inicio)
		if vistos[chave] {
			continue
		}
		vistos[chave] = true
		resultado = append(resultado, ev)
	}
	for _, ev := range locais {
		chave := ChaveDedup(ev.Titulo, ev.Inicio)
		if vistos[chave] {
			continue
		}
		vistos[chave] = true
		resultado = append(resultado, ev)
	}
	return resultado
}
