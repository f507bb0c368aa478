package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rongwang/sheet-tables-server/internal/models"
)

// MemoryRepository keeps everything in process memory. Stored values are
// copied on the way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[string]models.User
	emails     map[string]string
	tables     map[tableKey]*models.Table
	tableOrder []tableKey
}

// tableKey is the compound key tables are stored under, so a lookup
// with the wrong owner misses exactly like a missing id.
type tableKey struct {
	id    string
	owner string
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
		tables: make(map[tableKey]*models.Table),
	}
}

// User repository methods
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.emails[user.Email]; exists {
		return fmt.Errorf("duplicate email %q", user.Email)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = *user
	r.emails[user.Email] = user.ID
	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[email]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	return &user, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Table repository methods
func (r *MemoryRepository) CreateTable(ctx context.Context, table *models.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if table.ID == "" {
		table.ID = uuid.New().String()
	}
	for _, k := range r.tableOrder {
		if k.id == table.ID {
			return fmt.Errorf("duplicate table id %q", table.ID)
		}
	}

	if table.CreatedAt.IsZero() {
		table.CreatedAt = time.Now().UTC()
	}
	if table.LastUpdated.IsZero() {
		table.LastUpdated = table.CreatedAt
	}

	key := tableKey{id: table.ID, owner: table.Owner}
	r.tables[key] = table.Clone()
	r.tableOrder = append(r.tableOrder, key)
	return nil
}

func (r *MemoryRepository) GetTable(ctx context.Context, tableID, owner string) (*models.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[tableKey{id: tableID, owner: owner}]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

func (r *MemoryRepository) ListTables(ctx context.Context, owner string) ([]models.Table, error) {
	return r.list(func(t *models.Table) bool { return t.Owner == owner }), nil
}

func (r *MemoryRepository) ListAllTables(ctx context.Context) ([]models.Table, error) {
	return r.list(func(*models.Table) bool { return true }), nil
}

func (r *MemoryRepository) list(match func(*models.Table) bool) []models.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]models.Table, 0)
	for _, key := range r.tableOrder {
		t, ok := r.tables[key]
		if !ok || !match(t) {
			continue
		}
		tables = append(tables, *t.Clone())
	}
	return tables
}

func (r *MemoryRepository) ReplaceTableContent(ctx context.Context, table *models.Table) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tables[tableKey{id: table.ID, owner: table.Owner}]
	if !ok {
		return false, nil
	}

	stored.Columns = table.Columns.Clone()
	stored.Data = table.Data.Clone()
	stored.LastUpdated = table.LastUpdated
	return true, nil
}

func (r *MemoryRepository) DeleteTable(ctx context.Context, tableID, owner string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tableKey{id: tableID, owner: owner}
	if _, ok := r.tables[key]; !ok {
		return false, nil
	}

	delete(r.tables, key)
	for i, k := range r.tableOrder {
		if k == key {
			r.tableOrder = append(r.tableOrder[:i], r.tableOrder[i+1:]...)
			break
		}
	}
	return true, nil
}
