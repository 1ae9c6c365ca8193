package postgres

import "database/sql"

// Queryer é o subconjunto comum de *sql.DB e *sql.Tx. Repositórios recebem
// um Queryer para poderem operar tanto na conexão quanto dentro de uma
// transação aberta pelo caso de uso.
type Queryer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
