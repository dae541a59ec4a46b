package agendamento

// CriarAgendamentoRequest é o corpo aceito em POST /tenant/appointments.
// start_time leva um timestamp ISO; clientes antigos ainda mandam só a
// data em "data" e nesse caso o horário é meia-noite local.
type CriarAgendamentoRequest struct {
	Titulo    string `json:"title"`
	Descricao string `json:"description"`

	StartTime string `json:"start_time"`
	Data      string `json:"data,omitempty"`

	ServiceID      string  `json:"service_id"`
	PlanID         *string `json:"plan_id,omitempty"`
	CustomerID     *string `json:"customer_id,omitempty"`
	LeadID         *string `json:"lead_id,omitempty"`
	ProfessionalID *string `json:"professional_id,omitempty"`

	// Quando presentes, têm prioridade sobre os valores do catálogo.
	DuracaoMinutos *int     `json:"service_duration_minutes,omitempty"`
	ValorServico   *float64 `json:"service_value,omitempty"`
}

// AtualizarAgendamentoRequest é o corpo de PUT /tenant/appointments/{id}.
// Todos os campos são opcionais; só o que vier preenchido é alterado.
type AtualizarAgendamentoRequest struct {
	Titulo    *string `json:"title,omitempty"`
	Descricao *string `json:"description,omitempty"`

	StartTime *string `json:"start_time,omitempty"`
	Data      *string `json:"data,omitempty"`

	ServiceID      *string `json:"service_id,omitempty"`
	ProfessionalID *string `json:"professional_id,omitempty"`
	CustomerID     *string `json:"customer_id,omitempty"`

	DuracaoMinutos *int     `json:"service_duration_minutes,omitempty"`
	ValorServico   *float64 `json:"service_value,omitempty"`
}
