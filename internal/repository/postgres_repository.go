package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rongwang/sheet-tables-server/internal/models"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// tableRow is the flat column layout of sheet_tables
type tableRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	SourceID    string         `db:"source_id"`
	SourceURL   string         `db:"source_url"`
	Columns     models.Columns `db:"columns"`
	Data        models.Records `db:"data"`
	Owner       string         `db:"owner"`
	CreatedAt   time.Time      `db:"created_at"`
	LastUpdated time.Time      `db:"last_updated"`
}

func (row *tableRow) toModel() models.Table {
	return models.Table{
		ID:   row.ID,
		Name: row.Name,
		Source: models.SourceReference{
			SourceID:  row.SourceID,
			SourceURL: row.SourceURL,
		},
		Columns:     row.Columns,
		Data:        row.Data,
		Owner:       row.Owner,
		CreatedAt:   row.CreatedAt.UTC(),
		LastUpdated: row.LastUpdated.UTC(),
	}
}

const tableColumns = `id, name, source_id, source_url, columns, data, owner, created_at, last_updated`

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Table repository methods
func (r *PostgresRepository) CreateTable(ctx context.Context, table *models.Table) error {
	query := `
		INSERT INTO sheet_tables (` + tableColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if table.ID == "" {
		table.ID = uuid.New().String()
	}

	if table.CreatedAt.IsZero() {
		table.CreatedAt = time.Now().UTC()
	}
	if table.LastUpdated.IsZero() {
		table.LastUpdated = table.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, query,
		table.ID, table.Name, table.Source.SourceID, table.Source.SourceURL,
		table.Columns, table.Data, table.Owner, table.CreatedAt, table.LastUpdated)

	return err
}

func (r *PostgresRepository) GetTable(ctx context.Context, tableID, owner string) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM sheet_tables WHERE id = $1 AND owner = $2`

	var row tableRow
	err := r.db.GetContext(ctx, &row, query, tableID, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Table not found
		}
		return nil, err
	}

	table := row.toModel()
	return &table, nil
}

func (r *PostgresRepository) ListTables(ctx context.Context, owner string) ([]models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM sheet_tables WHERE owner = $1 ORDER BY created_at ASC`
	return r.selectTables(ctx, query, owner)
}

func (r *PostgresRepository) ListAllTables(ctx context.Context) ([]models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM sheet_tables ORDER BY created_at ASC`
	return r.selectTables(ctx, query)
}

func (r *PostgresRepository) selectTables(ctx context.Context, query string, args ...interface{}) ([]models.Table, error) {
	var rows []tableRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	tables := make([]models.Table, 0, len(rows))
	for i := range rows {
		tables = append(tables, rows[i].toModel())
	}

	return tables, nil
}

func (r *PostgresRepository) ReplaceTableContent(ctx context.Context, table *models.Table) (bool, error) {
	query := `
		UPDATE sheet_tables
		SET columns = $1, data = $2, last_updated = $3
		WHERE id = $4 AND owner = $5
	`

	res, err := r.db.ExecContext(ctx, query,
		table.Columns, table.Data, table.LastUpdated, table.ID, table.Owner)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *PostgresRepository) DeleteTable(ctx context.Context, tableID, owner string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sheet_tables WHERE id = $1 AND owner = $2`, tableID, owner)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
