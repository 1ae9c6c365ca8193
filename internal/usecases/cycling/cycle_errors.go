package cycling

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de ciclos mensais
var (
	ErrCycleNotFound     = errors.New("cycle not found")
	ErrInvalidCycleDate  = errors.New("invalid cycle date")
	ErrDatabaseOperation = errors.New("database operation error")
)

// CycleError é um erro com contexto adicional para ciclos
type CycleError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	CycleID int    // ID do ciclo envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *CycleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *CycleError) Unwrap() error {
	return e.Err
}

// NewCycleError cria um novo CycleError
func NewCycleError(err error, code string, details string) *CycleError {
	return &CycleError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
