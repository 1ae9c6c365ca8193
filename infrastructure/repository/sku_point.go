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
	skuPointsTable = "sku_points"
)

type SkuPointRepository interface {
	GetActiveBySKU(sku string) (*domain.SkuPoint, error)
	MapActivePoints() (map[string]float64, error)
}

type skuPointRepository struct {
	conn postgres.Queryer
}

func NewSkuPointRepository(conn *postgres.Connection) SkuPointRepository {
	return &skuPointRepository{
		conn: conn,
	}
}

func (r *skuPointRepository) GetActiveBySKU(sku string) (*domain.SkuPoint, error) {
	query, args, err := squirrel.
		Select("id", "sku", "points_per_unit", "active").
		From(skuPointsTable).
		Where(squirrel.Expr("LOWER(sku) = LOWER(?)", sku)).
		Where(squirrel.Eq{"active": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var skuPoint domain.SkuPoint
	err = r.conn.QueryRow(query, args...).Scan(
		&skuPoint.ID,
		&skuPoint.SKU,
		&skuPoint.PointsPerUnit,
		&skuPoint.Active,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &skuPoint, nil
}

// MapActivePoints retorna a tabela de pontuação por SKU ativa, indexada pelo
// SKU em minúsculas.
func (r *skuPointRepository) MapActivePoints() (map[string]float64, error) {
	query, args, err := squirrel.
		Select("sku", "points_per_unit").
		From(skuPointsTable).
		Where(squirrel.Eq{"active": true}).
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

	points := make(map[string]float64)
	for rows.Next() {
		var sku string
		var pointsPerUnit float64
		if err := rows.Scan(&sku, &pointsPerUnit); err != nil {
			return nil, err
		}
		key := strings.ToLower(strings.TrimSpace(sku))
		if key == "" {
			continue
		}
		if pointsPerUnit < 0 {
			pointsPerUnit = 0
		}
		points[key] = pointsPerUnit
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}
