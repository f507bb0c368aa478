package repository

import (
	"context"

	"github.com/rongwang/sheet-tables-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy.
//
// Lookups return (nil, nil) when nothing matches. Every table operation that
// takes an owner matches on (id, owner) together, so a table owned by someone
// else looks exactly like a missing one.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Table operations
	CreateTable(ctx context.Context, table *models.Table) error
	GetTable(ctx context.Context, tableID, owner string) (*models.Table, error)
	ListTables(ctx context.Context, owner string) ([]models.Table, error)
	ListAllTables(ctx context.Context) ([]models.Table, error)
	// ReplaceTableContent overwrites columns, data and lastUpdated in one write.
	// It reports false when no table matched (tableID, owner).
	ReplaceTableContent(ctx context.Context, table *models.Table) (bool, error)
	DeleteTable(ctx context.Context, tableID, owner string) (bool, error)
}
