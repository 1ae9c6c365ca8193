package planning

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de planejamento
var (
	ErrNoEntries          = errors.New("no entries to schedule")
	ErrNoValidDays        = errors.New("no valid days identified")
	ErrCycleNotFound      = errors.New("cycle not found")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrPlanAccessDenied   = errors.New("plan access denied")
	ErrInvalidPlanDate    = errors.New("invalid plan date")
	ErrDateOutsideCycle   = errors.New("date outside cycle")
	ErrDuplicatePlanDate  = errors.New("duplicate plan date")
	ErrInvalidScriptID    = errors.New("invalid script id")
	ErrScriptNotFound     = errors.New("script not found")
	ErrPlanAlreadyChecked = errors.New("plan already validated")
	ErrDatabaseOperation  = errors.New("database operation error")
)

// PlanError é um erro com contexto adicional para o planejamento. Message
// carrega a mensagem exibida ao cliente.
type PlanError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Message string // Mensagem para o cliente
}

// Error implementa a interface error
func (e *PlanError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *PlanError) Unwrap() error {
	return e.Err
}

// NewPlanError cria um novo PlanError
func NewPlanError(err error, code string, message string) *PlanError {
	return &PlanError{
		Err:     err,
		Code:    code,
		Message: message,
	}
}
