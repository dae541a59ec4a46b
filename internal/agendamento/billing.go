package agendamento

// DecidirCobranca determina o status de cobrança de um agendamento novo.
// Hoje a regra é só presença de plano: com plano a cobrança é coberta,
// sem plano nasce em aberto e gera lançamento financeiro. A validade do
// plano em si não é verificada aqui.
func DecidirCobranca(temPlano bool) string {
	if temPlano {
		return CobrancaCobertaPlano
	}
	return CobrancaAberta
}
