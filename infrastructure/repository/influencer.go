package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/hidrapink/influencer-ops-api/infrastructure/database/postgres"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	_ "github.com/lib/pq"
)

const (
	influencersTable = "influencers"
)

type InfluencerRepository interface {
	GetByID(id int) (*domain.Influencer, error)
	GetByUserID(userID int) (*domain.Influencer, error)
	GetByCoupon(coupon string) (*domain.Influencer, error)
	MapByCoupons(coupons []string) (map[string]*domain.Influencer, error)
	List() ([]*domain.Influencer, error)
}

type influencerRepository struct {
	conn postgres.Queryer
}

func NewInfluencerRepository(conn *postgres.Connection) InfluencerRepository {
	return &influencerRepository{
		conn: conn,
	}
}

const influencerColumns = "id, nome, instagram, cupom, COALESCE(commission_rate, 0), user_id, active, created_at"

func (r *influencerRepository) scanInfluencer(row squirrel.RowScanner) (*domain.Influencer, error) {
	var influencer domain.Influencer
	err := row.Scan(
		&influencer.ID,
		&influencer.Name,
		&influencer.Instagram,
		&influencer.Coupon,
		&influencer.CommissionRate,
		&influencer.UserID,
		&influencer.Active,
		&influencer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &influencer, nil
}

func (r *influencerRepository) getByWhere(where interface{}, args ...interface{}) (*domain.Influencer, error) {
	query, queryArgs, err := squirrel.
		Select(influencerColumns).
		From(influencersTable).
		Where(where, args...).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	influencer, err := r.scanInfluencer(r.conn.QueryRow(query, queryArgs...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear influenciadora: %w", err)
	}

	return influencer, nil
}

func (r *influencerRepository) GetByID(id int) (*domain.Influencer, error) {
	return r.getByWhere(squirrel.Eq{"id": id})
}

func (r *influencerRepository) GetByUserID(userID int) (*domain.Influencer, error) {
	return r.getByWhere(squirrel.Eq{"user_id": userID})
}

func (r *influencerRepository) GetByCoupon(coupon string) (*domain.Influencer, error) {
	if strings.TrimSpace(coupon) == "" {
		return nil, nil
	}
	return r.getByWhere(squirrel.Expr("LOWER(cupom) = LOWER(?)", strings.TrimSpace(coupon)))
}

// MapByCoupons retorna as influenciadoras indexadas pelo cupom em minúsculas.
func (r *influencerRepository) MapByCoupons(coupons []string) (map[string]*domain.Influencer, error) {
	result := make(map[string]*domain.Influencer)

	normalized := make([]string, 0, len(coupons))
	for _, coupon := range coupons {
		coupon = strings.ToLower(strings.TrimSpace(coupon))
		if coupon != "" {
			normalized = append(normalized, coupon)
		}
	}
	if len(normalized) == 0 {
		return result, nil
	}

	query, args, err := squirrel.
		Select(influencerColumns).
		From(influencersTable).
		Where(squirrel.Eq{"LOWER(cupom)": normalized}).
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

	for rows.Next() {
		influencer, err := r.scanInfluencer(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear influenciadora: %w", err)
		}
		if influencer.Coupon == nil {
			continue
		}
		result[strings.ToLower(strings.TrimSpace(*influencer.Coupon))] = influencer
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *influencerRepository) List() ([]*domain.Influencer, error) {
	query, args, err := squirrel.
		Select(influencerColumns).
		From(influencersTable).
		OrderBy("nome ASC").
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

	var influencers []*domain.Influencer
	for rows.Next() {
		influencer, err := r.scanInfluencer(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear influenciadora: %w", err)
		}
		influencers = append(influencers, influencer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return influencers, nil
}
