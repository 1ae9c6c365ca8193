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
	plansTable = "influencer_plans"
)

type PlanRepository interface {
	WithTx(tx *sql.Tx) PlanRepository
	GetByID(id int) (*domain.InfluencerPlan, error)
	GetDetailsByID(id int) (*domain.PlanWithDetails, error)
	ListByCycleAndInfluencer(cycleID, influencerID int) ([]*domain.InfluencerPlan, error)
	ListDetailsByCycleAndInfluencer(cycleID, influencerID int) ([]*domain.PlanWithDetails, error)
	ListDetailsByCycle(cycleID int) ([]*domain.PlanWithDetails, error)
	ListPendingValidation(cycleID int) ([]*domain.PlanWithDetails, error)
	Create(plan *domain.InfluencerPlan) (*domain.InfluencerPlan, error)
	Update(plan *domain.InfluencerPlan) error
	UpdateStatus(id int, status domain.PlanStatus) error
	Delete(id int) error
	DeleteByScript(cycleID, influencerID, scriptID int) (int64, error)
	ExistsByDate(cycleID, influencerID int, date time.Time, excludeID int) (bool, error)
	CountByCycleAndInfluencer(cycleID, influencerID int) (int, error)
	CountValidated(cycleID, influencerID int) (int, error)
}

type planRepository struct {
	conn postgres.Queryer
}

func NewPlanRepository(conn *postgres.Connection) PlanRepository {
	return &planRepository{
		conn: conn,
	}
}

func (r *planRepository) WithTx(tx *sql.Tx) PlanRepository {
	return &planRepository{conn: tx}
}

const planColumns = "p.id, p.cycle_id, p.influencer_id, p.scheduled_date, p.content_script_id, p.notes, p.status, p.created_at, p.updated_at"

func (r *planRepository) scanPlan(row squirrel.RowScanner) (*domain.InfluencerPlan, error) {
	var plan domain.InfluencerPlan
	err := row.Scan(
		&plan.ID,
		&plan.CycleID,
		&plan.InfluencerID,
		&plan.ScheduledDate,
		&plan.ContentScriptID,
		&plan.Notes,
		&plan.Status,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetByID(id int) (*domain.InfluencerPlan, error) {
	query, args, err := squirrel.
		Select(planColumns).
		From(plansTable + " p").
		Where(squirrel.Eq{"p.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	plan, err := r.scanPlan(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear agendamento: %w", err)
	}

	return plan, nil
}

func (r *planRepository) detailsQuery() squirrel.SelectBuilder {
	return squirrel.
		Select(
			"p.id",
			"p.cycle_id",
			"p.influencer_id",
			"to_char(p.scheduled_date, 'YYYY-MM-DD')",
			"p.status",
			"p.content_script_id",
			"p.notes",
			"i.nome",
			"i.instagram",
			"cs.titulo",
		).
		From(plansTable + " p").
		LeftJoin("influencers i ON i.id = p.influencer_id").
		LeftJoin("content_scripts cs ON cs.id = p.content_script_id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *planRepository) scanDetails(row squirrel.RowScanner) (*domain.PlanWithDetails, error) {
	var plan domain.PlanWithDetails
	err := row.Scan(
		&plan.ID,
		&plan.CycleID,
		&plan.InfluencerID,
		&plan.ScheduledDate,
		&plan.Status,
		&plan.ContentScriptID,
		&plan.Notes,
		&plan.InfluencerName,
		&plan.Instagram,
		&plan.ScriptTitle,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetDetailsByID(id int) (*domain.PlanWithDetails, error) {
	query, args, err := r.detailsQuery().
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	plan, err := r.scanDetails(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear agendamento: %w", err)
	}

	return plan, nil
}

func (r *planRepository) ListByCycleAndInfluencer(cycleID, influencerID int) ([]*domain.InfluencerPlan, error) {
	query, args, err := squirrel.
		Select(planColumns).
		From(plansTable+" p").
		Where(squirrel.Eq{"p.cycle_id": cycleID, "p.influencer_id": influencerID}).
		OrderBy("p.scheduled_date ASC", "p.id ASC").
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

	var plans []*domain.InfluencerPlan
	for rows.Next() {
		plan, err := r.scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear agendamento: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *planRepository) listDetails(builder squirrel.SelectBuilder) ([]*domain.PlanWithDetails, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.PlanWithDetails
	for rows.Next() {
		plan, err := r.scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear agendamento: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *planRepository) ListDetailsByCycleAndInfluencer(cycleID, influencerID int) ([]*domain.PlanWithDetails, error) {
	return r.listDetails(r.detailsQuery().
		Where(squirrel.Eq{"p.cycle_id": cycleID, "p.influencer_id": influencerID}).
		OrderBy("p.scheduled_date ASC", "p.id ASC"))
}

func (r *planRepository) ListDetailsByCycle(cycleID int) ([]*domain.PlanWithDetails, error) {
	return r.listDetails(r.detailsQuery().
		Where(squirrel.Eq{"p.cycle_id": cycleID}).
		OrderBy("p.scheduled_date ASC", "i.nome ASC"))
}

func (r *planRepository) ListPendingValidation(cycleID int) ([]*domain.PlanWithDetails, error) {
	return r.listDetails(r.detailsQuery().
		Where(squirrel.Eq{"p.cycle_id": cycleID, "p.status": domain.PlanStatusScheduled}).
		OrderBy("p.scheduled_date ASC", "i.nome ASC"))
}

func (r *planRepository) Create(plan *domain.InfluencerPlan) (*domain.InfluencerPlan, error) {
	query, args, err := squirrel.
		Insert(plansTable).
		Columns("cycle_id", "influencer_id", "scheduled_date", "content_script_id", "notes", "status").
		Values(plan.CycleID, plan.InfluencerID, plan.ScheduledDate, plan.ContentScriptID, plan.Notes, plan.Status).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(query, args...).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *planRepository) Update(plan *domain.InfluencerPlan) error {
	query, args, err := squirrel.
		Update(plansTable).
		Set("scheduled_date", plan.ScheduledDate).
		Set("content_script_id", plan.ContentScriptID).
		Set("notes", plan.Notes).
		Set("status", plan.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": plan.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *planRepository) UpdateStatus(id int, status domain.PlanStatus) error {
	query, args, err := squirrel.
		Update(plansTable).
		Set("status", status).
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

func (r *planRepository) Delete(id int) error {
	query, args, err := squirrel.
		Delete(plansTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *planRepository) DeleteByScript(cycleID, influencerID, scriptID int) (int64, error) {
	query, args, err := squirrel.
		Delete(plansTable).
		Where(squirrel.Eq{
			"cycle_id":          cycleID,
			"influencer_id":     influencerID,
			"content_script_id": scriptID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *planRepository) ExistsByDate(cycleID, influencerID int, date time.Time, excludeID int) (bool, error) {
	query, args, err := squirrel.
		Select("COUNT(1)").
		From(plansTable).
		Where(squirrel.Eq{"cycle_id": cycleID, "influencer_id": influencerID, "scheduled_date": date}).
		Where(squirrel.NotEq{"id": excludeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *planRepository) CountByCycleAndInfluencer(cycleID, influencerID int) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(1)").
		From(plansTable).
		Where(squirrel.Eq{"cycle_id": cycleID, "influencer_id": influencerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *planRepository) CountValidated(cycleID, influencerID int) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(1)").
		From(plansTable).
		Where(squirrel.Eq{
			"cycle_id":      cycleID,
			"influencer_id": influencerID,
			"status":        domain.PlanStatusValidated,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
