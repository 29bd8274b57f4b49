package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"planner/internal/planner/models"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("plan not found")

//go:embed migrations/001_init_planner.sql
var initMigration string

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// body - то, что хранится в колонке body: сам граф плана.
type body struct {
	Corners []models.Corner `json:"corners"`
	Walls   []models.Wall   `json:"walls"`
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, initMigration); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Ping проверяет, что база доступна (readiness).
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create сохраняет новый план. Если id не задан, генерируется uuid.
func (r *Repository) Create(ctx context.Context, p models.Plan) (*models.Plan, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	ts := r.timestamp()
	p.CreatedAt, p.UpdatedAt = ts, ts

	data, err := encodeBody(p)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO plans (id, name, unit, body, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, p.ID, p.Name, p.Unit, data, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return &p, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, unit, body, created_at, updated_at
        FROM plans
        WHERE id = ?
    `, id)

	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, unit, body, created_at, updated_at
        FROM plans
        ORDER BY created_at, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	out := []models.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update перезаписывает план целиком; created_at не меняется.
func (r *Repository) Update(ctx context.Context, p models.Plan) (*models.Plan, error) {
	data, err := encodeBody(p)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = r.timestamp()

	res, err := r.db.ExecContext(ctx, `
        UPDATE plans
        SET name = ?, unit = ?, body = ?, updated_at = ?
        WHERE id = ?
    `, p.Name, p.Unit, data, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	if err := expectOne(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, p.ID)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return expectOne(res)
}

// ============================================================
// Helpers
// ============================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(s scanner) (*models.Plan, error) {
	var (
		p    models.Plan
		data string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Unit, &data, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	var b body
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", p.ID, err)
	}
	p.Corners, p.Walls = b.Corners, b.Walls
	if p.Corners == nil {
		p.Corners = []models.Corner{}
	}
	if p.Walls == nil {
		p.Walls = []models.Wall{}
	}
	return &p, nil
}

func encodeBody(p models.Plan) (string, error) {
	data, err := json.Marshal(body{Corners: p.Corners, Walls: p.Walls})
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	return string(data), nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
