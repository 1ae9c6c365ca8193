package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/hidrapink/influencer-ops-api/infrastructure/database/postgres"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	_ "github.com/lib/pq"
)

const (
	monthlyCommissionsTable = "monthly_commissions"
)

type MonthlyCommissionRepository interface {
	WithTx(tx *sql.Tx) MonthlyCommissionRepository
	Upsert(commission *domain.MonthlyCommission) error
	ListByInfluencer(influencerID int) ([]*domain.MonthlyCommission, error)
	ListByCycle(cycleID int) ([]*domain.MonthlyCommission, error)
}

type monthlyCommissionRepository struct {
	conn postgres.Queryer
}

func NewMonthlyCommissionRepository(conn *postgres.Connection) MonthlyCommissionRepository {
	return &monthlyCommissionRepository{
		conn: conn,
	}
}

func (r *monthlyCommissionRepository) WithTx(tx *sql.Tx) MonthlyCommissionRepository {
	return &monthlyCommissionRepository{conn: tx}
}

// Upsert grava o retrato da comissão do ciclo. A virada de ciclo roda mais de
// uma vez sem duplicar registros por conta da constraint (cycle_id, influencer_id).
func (r *monthlyCommissionRepository) Upsert(commission *domain.MonthlyCommission) error {
	query, args, err := squirrel.
		Insert(monthlyCommissionsTable).
		Columns(
			"cycle_id",
			"influencer_id",
			"base_points",
			"validated_days",
			"multiplier",
			"multiplier_label",
			"total_points",
			"total_value_brl",
		).
		Values(
			commission.CycleID,
			commission.InfluencerID,
			commission.BasePoints,
			commission.ValidatedDays,
			commission.Multiplier,
			commission.MultiplierLabel,
			commission.TotalPoints,
			commission.TotalValueBRL,
		).
		Suffix(`ON CONFLICT (cycle_id, influencer_id) DO UPDATE SET
			base_points = EXCLUDED.base_points,
			validated_days = EXCLUDED.validated_days,
			multiplier = EXCLUDED.multiplier,
			multiplier_label = EXCLUDED.multiplier_label,
			total_points = EXCLUDED.total_points,
			total_value_brl = EXCLUDED.total_value_brl,
			updated_at = NOW()`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

const monthlyCommissionColumns = "id, cycle_id, influencer_id, base_points, validated_days, multiplier, multiplier_label, total_points, total_value_brl, created_at, updated_at"

func (r *monthlyCommissionRepository) scanCommission(row squirrel.RowScanner) (*domain.MonthlyCommission, error) {
	var commission domain.MonthlyCommission
	err := row.Scan(
		&commission.ID,
		&commission.CycleID,
		&commission.InfluencerID,
		&commission.BasePoints,
		&commission.ValidatedDays,
		&commission.Multiplier,
		&commission.MultiplierLabel,
		&commission.TotalPoints,
		&commission.TotalValueBRL,
		&commission.CreatedAt,
		&commission.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *monthlyCommissionRepository) list(where squirrel.Eq, orderBy ...string) ([]*domain.MonthlyCommission, error) {
	query, args, err := squirrel.
		Select(monthlyCommissionColumns).
		From(monthlyCommissionsTable).
		Where(where).
		OrderBy(orderBy...).
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

	var commissions []*domain.MonthlyCommission
	for rows.Next() {
		commission, err := r.scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear comissão: %w", err)
		}
		commissions = append(commissions, commission)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return commissions, nil
}

func (r *monthlyCommissionRepository) ListByInfluencer(influencerID int) ([]*domain.MonthlyCommission, error) {
	return r.list(squirrel.Eq{"influencer_id": influencerID}, "cycle_id DESC", "id DESC")
}

func (r *monthlyCommissionRepository) ListByCycle(cycleID int) ([]*domain.MonthlyCommission, error) {
	return r.list(squirrel.Eq{"cycle_id": cycleID}, "influencer_id ASC")
}
