package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/hidrapink/influencer-ops-api/infrastructure/database/postgres"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	_ "github.com/lib/pq"
)

const (
	cyclesTable = "monthly_cycles"
)

type CycleRepository interface {
	WithTx(tx *sql.Tx) CycleRepository
	GetByID(id int) (*domain.MonthlyCycle, error)
	GetByYearMonth(year, month int) (*domain.MonthlyCycle, error)
	ListOpen() ([]*domain.MonthlyCycle, error)
	ListClosed() ([]*domain.MonthlyCycle, error)
	Create(year, month int, startedAt time.Time) (*domain.MonthlyCycle, error)
	Close(id int) error
	Reopen(id int) error
	Touch(id int) error
}

type cycleRepository struct {
	conn postgres.Queryer
}

func NewCycleRepository(conn *postgres.Connection) CycleRepository {
	return &cycleRepository{
		conn: conn,
	}
}

func (r *cycleRepository) WithTx(tx *sql.Tx) CycleRepository {
	return &cycleRepository{conn: tx}
}

const cycleColumns = "id, cycle_year, cycle_month, status, started_at, closed_at, created_at, updated_at"

func (r *cycleRepository) scanCycle(row squirrel.RowScanner) (*domain.MonthlyCycle, error) {
	var cycle domain.MonthlyCycle
	err := row.Scan(
		&cycle.ID,
		&cycle.CycleYear,
		&cycle.CycleMonth,
		&cycle.Status,
		&cycle.StartedAt,
		&cycle.ClosedAt,
		&cycle.CreatedAt,
		&cycle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepository) GetByID(id int) (*domain.MonthlyCycle, error) {
	query, args, err := squirrel.
		Select(cycleColumns).
		From(cyclesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	cycle, err := r.scanCycle(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear ciclo: %w", err)
	}

	return cycle, nil
}

func (r *cycleRepository) GetByYearMonth(year, month int) (*domain.MonthlyCycle, error) {
	query, args, err := squirrel.
		Select(cycleColumns).
		From(cyclesTable).
		Where(squirrel.Eq{"cycle_year": year, "cycle_month": month}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	cycle, err := r.scanCycle(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear ciclo: %w", err)
	}

	return cycle, nil
}

func (r *cycleRepository) listByStatus(status domain.CycleStatus) ([]*domain.MonthlyCycle, error) {
	query, args, err := squirrel.
		Select(cycleColumns).
		From(cyclesTable).
		Where(squirrel.Eq{"status": status}).
		OrderBy("cycle_year DESC", "cycle_month DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []*domain.MonthlyCycle
	for rows.Next() {
		cycle, err := r.scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear ciclo: %w", err)
		}
		cycles = append(cycles, cycle)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cycles, nil
}

func (r *cycleRepository) ListOpen() ([]*domain.MonthlyCycle, error) {
	return r.listByStatus(domain.CycleStatusOpen)
}

func (r *cycleRepository) ListClosed() ([]*domain.MonthlyCycle, error) {
	return r.listByStatus(domain.CycleStatusClosed)
}

// Create insere o ciclo do mês. Em corrida de criação a constraint
// (cycle_year, cycle_month) descarta o insert sem abortar a transação; o
// retorno nulo indica que o ciclo já existe e deve ser relido.
func (r *cycleRepository) Create(year, month int, startedAt time.Time) (*domain.MonthlyCycle, error) {
	query, args, err := squirrel.
		Insert(cyclesTable).
		Columns("cycle_year", "cycle_month", "status", "started_at").
		Values(year, month, domain.CycleStatusOpen, startedAt).
		Suffix("ON CONFLICT (cycle_year, cycle_month) DO NOTHING RETURNING " + cycleColumns).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	cycle, err := r.scanCycle(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return cycle, nil
}

func (r *cycleRepository) Close(id int) error {
	query, args, err := squirrel.
		Update(cyclesTable).
		Set("status", domain.CycleStatusClosed).
		Set("closed_at", squirrel.Expr("COALESCE(closed_at, NOW())")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *cycleRepository) Reopen(id int) error {
	query, args, err := squirrel.
		Update(cyclesTable).
		Set("status", domain.CycleStatusOpen).
		Set("closed_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *cycleRepository) Touch(id int) error {
	query, args, err := squirrel.
		Update(cyclesTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}
