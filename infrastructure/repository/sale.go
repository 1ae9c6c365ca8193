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
	salesTable        = "sales s"
	saleSkuItemsTable = "sale_sku_points"
)

type SaleRepository interface {
	WithTx(tx *sql.Tx) SaleRepository
	GetByID(id int) (*domain.Sale, error)
	GetIDByOrderNumber(orderNumber string) (int, error)
	FilterExistingOrderNumbers(orderNumbers []string) (map[string]bool, error)
	Create(sale *domain.Sale) (*domain.Sale, error)
	Update(sale *domain.Sale) error
	Delete(id int) error
	ListByInfluencer(influencerID int) ([]*domain.Sale, error)
	SumApprovedPoints(influencerID int) (int, error)
	SumApprovedPointsByCycle(cycleID int) (map[int]int, error)
	InsertItems(saleID int, items []*domain.SaleSkuPoint) error
	DeleteItems(saleID int) error
	ListItems(saleID int) ([]*domain.SaleSkuPoint, error)
}

type saleRepository struct {
	conn postgres.Queryer
}

func NewSaleRepository(conn *postgres.Connection) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

func (r *saleRepository) WithTx(tx *sql.Tx) SaleRepository {
	return &saleRepository{conn: tx}
}

func (r *saleRepository) saleQuery() squirrel.SelectBuilder {
	return squirrel.
		Select(
			"s.id",
			"s.influencer_id",
			"s.order_number",
			"s.date",
			"s.cycle_id",
			"s.gross_value",
			"s.discount",
			"s.net_value",
			"s.commission",
			"s.points",
			"s.status",
			"s.created_at",
			"i.cupom",
			"i.nome",
			"COALESCE(i.commission_rate, 0)",
		).
		From(salesTable).
		LeftJoin("influencers i ON i.id = s.influencer_id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *saleRepository) scanSale(row squirrel.RowScanner) (*domain.Sale, error) {
	var sale domain.Sale
	err := row.Scan(
		&sale.ID,
		&sale.InfluencerID,
		&sale.OrderNumber,
		&sale.Date,
		&sale.CycleID,
		&sale.GrossValue,
		&sale.Discount,
		&sale.NetValue,
		&sale.Commission,
		&sale.Points,
		&sale.Status,
		&sale.CreatedAt,
		&sale.Coupon,
		&sale.InfluencerName,
		&sale.CommissionRate,
	)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) GetByID(id int) (*domain.Sale, error) {
	query, args, err := r.saleQuery().
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	sale, err := r.scanSale(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear venda: %w", err)
	}

	items, err := r.ListItems(sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	return sale, nil
}

func (r *saleRepository) GetIDByOrderNumber(orderNumber string) (int, error) {
	query, args, err := squirrel.
		Select("s.id").
		From(salesTable).
		Where(squirrel.Eq{"s.order_number": orderNumber}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var id int
	err = r.conn.QueryRow(query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *saleRepository) FilterExistingOrderNumbers(orderNumbers []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(orderNumbers) == 0 {
		return existing, nil
	}

	query, args, err := squirrel.
		Select("s.order_number").
		From(salesTable).
		Where(squirrel.Eq{"s.order_number": orderNumbers}).
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
		var orderNumber string
		if err := rows.Scan(&orderNumber); err != nil {
			return nil, err
		}
		existing[orderNumber] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return existing, nil
}

func (r *saleRepository) Create(sale *domain.Sale) (*domain.Sale, error) {
	query, args, err := squirrel.
		Insert("sales").
		Columns(
			"influencer_id",
			"order_number",
			"date",
			"cycle_id",
			"gross_value",
			"discount",
			"net_value",
			"commission",
			"points",
			"status",
		).
		Values(
			sale.InfluencerID,
			sale.OrderNumber,
			sale.Date,
			sale.CycleID,
			sale.GrossValue,
			sale.Discount,
			sale.NetValue,
			sale.Commission,
			sale.Points,
			sale.Status,
		).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(query, args...).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (r *saleRepository) Update(sale *domain.Sale) error {
	query, args, err := squirrel.
		Update("sales").
		Set("influencer_id", sale.InfluencerID).
		Set("order_number", sale.OrderNumber).
		Set("date", sale.Date).
		Set("cycle_id", sale.CycleID).
		Set("gross_value", sale.GrossValue).
		Set("discount", sale.Discount).
		Set("net_value", sale.NetValue).
		Set("commission", sale.Commission).
		Set("points", sale.Points).
		Set("status", sale.Status).
		Where(squirrel.Eq{"id": sale.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *saleRepository) Delete(id int) error {
	query, args, err := squirrel.
		Delete("sales").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *saleRepository) ListByInfluencer(influencerID int) ([]*domain.Sale, error) {
	query, args, err := r.saleQuery().
		Where(squirrel.Eq{"s.influencer_id": influencerID}).
		OrderBy("s.date DESC", "s.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		sale, err := r.scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sale := range sales {
		items, err := r.ListItems(sale.ID)
		if err != nil {
			return nil, err
		}
		sale.Items = items
	}

	return sales, nil
}

func (r *saleRepository) SumApprovedPoints(influencerID int) (int, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(s.points), 0)").
		From(salesTable).
		Where(squirrel.Eq{"s.influencer_id": influencerID, "s.status": domain.SaleStatusApproved}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total int
	if err := r.conn.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *saleRepository) SumApprovedPointsByCycle(cycleID int) (map[int]int, error) {
	query, args, err := squirrel.
		Select("s.influencer_id", "COALESCE(SUM(s.points), 0)").
		From(salesTable).
		Where(squirrel.Eq{"s.cycle_id": cycleID, "s.status": domain.SaleStatusApproved}).
		GroupBy("s.influencer_id").
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

	totals := make(map[int]int)
	for rows.Next() {
		var influencerID, points int
		if err := rows.Scan(&influencerID, &points); err != nil {
			return nil, err
		}
		totals[influencerID] = points
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}

func (r *saleRepository) InsertItems(saleID int, items []*domain.SaleSkuPoint) error {
	if len(items) == 0 {
		return nil
	}

	builder := squirrel.
		Insert(saleSkuItemsTable).
		Columns("sale_id", "sku", "quantity", "points_per_unit", "points")

	for _, item := range items {
		if item == nil || strings.TrimSpace(item.SKU) == "" {
			continue
		}
		builder = builder.Values(saleID, item.SKU, item.Quantity, item.PointsPerUnit, item.Points)
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *saleRepository) DeleteItems(saleID int) error {
	query, args, err := squirrel.
		Delete(saleSkuItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *saleRepository) ListItems(saleID int) ([]*domain.SaleSkuPoint, error) {
	query, args, err := squirrel.
		Select("id", "sale_id", "sku", "quantity", "points_per_unit", "points", "created_at").
		From(saleSkuItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("id ASC").
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

	var items []*domain.SaleSkuPoint
	for rows.Next() {
		var item domain.SaleSkuPoint
		if err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.SKU,
			&item.Quantity,
			&item.PointsPerUnit,
			&item.Points,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
