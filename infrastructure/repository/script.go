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
	scriptsTable = "content_scripts"
)

type ScriptRepository interface {
	GetByID(id int) (*domain.ContentScript, error)
	ListRecent(limit int) ([]*domain.ContentScript, error)
}

type scriptRepository struct {
	conn postgres.Queryer
}

func NewScriptRepository(conn *postgres.Connection) ScriptRepository {
	return &scriptRepository{
		conn: conn,
	}
}

const scriptColumns = "id, titulo, conteudo, active, created_at"

func (r *scriptRepository) scanScript(row squirrel.RowScanner) (*domain.ContentScript, error) {
	var script domain.ContentScript
	err := row.Scan(
		&script.ID,
		&script.Title,
		&script.Body,
		&script.Active,
		&script.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &script, nil
}

func (r *scriptRepository) GetByID(id int) (*domain.ContentScript, error) {
	query, args, err := squirrel.
		Select(scriptColumns).
		From(scriptsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	script, err := r.scanScript(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear roteiro: %w", err)
	}

	return script, nil
}

func (r *scriptRepository) ListRecent(limit int) ([]*domain.ContentScript, error) {
	if limit <= 0 {
		limit = 15
	}

	query, args, err := squirrel.
		Select(scriptColumns).
		From(scriptsTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
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

	var scripts []*domain.ContentScript
	for rows.Next() {
		script, err := r.scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear roteiro: %w", err)
		}
		scripts = append(scripts, script)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scripts, nil
}
