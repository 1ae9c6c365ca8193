package selling

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de vendas
var (
	ErrEmptyImport        = errors.New("empty import payload")
	ErrImportNotParseable = errors.New("import not parseable")
	ErrNoRowsToImport     = errors.New("no rows to import")
	ErrNoValidRows        = errors.New("no valid rows to import")
	ErrInvalidSaleBody    = errors.New("invalid sale body")
	ErrInvalidSaleID      = errors.New("invalid sale id")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrDuplicateOrder     = errors.New("duplicate order number")
	ErrInvalidSaleStatus  = errors.New("invalid sale status")
	ErrDatabaseOperation  = errors.New("database operation error")
)

// SaleError é um erro com contexto adicional para vendas. Message carrega a
// mensagem exibida ao cliente; Details carrega a lista de problemas ou a
// análise completa, quando houver.
type SaleError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Message string // Mensagem para o cliente
	Details any    // Detalhes adicionais
}

// Error implementa a interface error
func (e *SaleError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *SaleError) Unwrap() error {
	return e.Err
}

// NewSaleError cria um novo SaleError
func NewSaleError(err error, code string, message string) *SaleError {
	return &SaleError{
		Err:     err,
		Code:    code,
		Message: message,
	}
}
