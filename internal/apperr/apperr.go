// Package apperr define os tipos de erro de negócio que a camada HTTP
// traduz em status codes. Regras de uso: NotFound cobre também referências
// de outro tenant (nunca vazar o registro), Integrity é tratado devolvendo
// o registro existente e não se propaga como falha.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError indica recurso ausente ou pertencente a outro tenant.
type NotFoundError struct {
	Recurso string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s não encontrado", e.Recurso)
}

// NotFound cria um NotFoundError para o recurso informado.
func NotFound(recurso string) error {
	return &NotFoundError{Recurso: recurso}
}

// ValidationError indica entrada malformada ou campo obrigatório ausente.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation cria um ValidationError com a mensagem formatada.
func Validation(formato string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(formato, args...)}
}

// ConflictError indica colisão de agendamento. Título identifica o
// agendamento conflitante para o usuário final resolver.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflict cria um ConflictError com a mensagem formatada.
func Conflict(formato string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(formato, args...)}
}

// IntegrityError indica tentativa de duplicar um registro com garantia de
// unicidade (comissão, lançamento de agenda).
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string { return e.Msg }

// Integrity cria um IntegrityError com a mensagem formatada.
func Integrity(formato string, args ...any) error {
	return &IntegrityError{Msg: fmt.Sprintf(formato, args...)}
}

// IsNotFound informa se err é (ou embrulha) um NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StatusHTTP mapeia o erro para o status code correspondente.
func StatusHTTP(err error) int {
	var (
		nf *NotFoundError
		va *ValidationError
		co *ConflictError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &va):
		return http.StatusBadRequest
	case errors.As(err, &co):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
