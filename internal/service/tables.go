package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"github.com/rongwang/sheet-tables-server/internal/sheets"
)

// CreateTable registers a spreadsheet and stores its normalized contents.
// Nothing is stored unless extraction, fetch and normalization all succeed.
func (s *DefaultService) CreateTable(
	ctx context.Context,
	owner string,
	req models.CreateTableRequest,
) (*models.Table, error) {
	name := strings.TrimSpace(req.Name)
	sourceURL := strings.TrimSpace(req.SourceURL)

	if name == "" {
		return nil, validationErr("name", "name is required")
	}
	if sourceURL == "" {
		return nil, validationErr("sourceUrl", "Google Sheet URL is required")
	}
	if !sheets.LooksLikeSheetURL(sourceURL) {
		return nil, validationErr("sourceUrl", "must be a Google Sheets URL ("+sheets.URLMarker+"...)")
	}

	sheetID, err := sheets.ExtractSheetID(sourceURL)
	if err != nil {
		return nil, err
	}

	columns, data, err := s.pull(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	table := &models.Table{
		ID:   uuid.New().String(),
		Name: name,
		Source: models.SourceReference{
			SourceID:  sheetID,
			SourceURL: sourceURL,
		},
		Columns:     columns,
		Data:        data,
		Owner:       owner,
		CreatedAt:   now,
		LastUpdated: now,
	}

	if err := s.repo.CreateTable(ctx, table); err != nil {
		return nil, fmt.Errorf("error creating table: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"table_id":  table.ID,
		"owner":     owner,
		"source_id": sheetID,
		"columns":   len(columns),
		"rows":      len(data),
	}).Info("table created")

	return table, nil
}

// GetTable returns the table with tableID owned by owner
func (s *DefaultService) GetTable(ctx context.Context, owner, tableID string) (*models.Table, error) {
	table, err := s.repo.GetTable(ctx, tableID, owner)
	if err != nil {
		return nil, fmt.Errorf("error getting table: %w", err)
	}
	if table == nil {
		return nil, ErrNotFound
	}
	return table, nil
}

// ListTables returns every table owned by owner
func (s *DefaultService) ListTables(ctx context.Context, owner string) ([]models.Table, error) {
	tables, err := s.repo.ListTables(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing tables: %w", err)
	}
	if tables == nil {
		tables = []models.Table{}
	}
	return tables, nil
}

// SyncTable re-fetches the table's spreadsheet by its stored source id and
// replaces columns, data and lastUpdated together. On any failure the stored
// table is left as it was.
func (s *DefaultService) SyncTable(ctx context.Context, owner, tableID string) (*models.Table, error) {
	table, err := s.GetTable(ctx, owner, tableID)
	if err != nil {
		return nil, err
	}

	columns, data, err := s.pull(ctx, table.Source.SourceID)
	if err != nil {
		return nil, err
	}

	table.Columns = columns
	table.Data = data
	table.LastUpdated = s.now()

	ok, err := s.repo.ReplaceTableContent(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("error syncing table: %w", err)
	}
	if !ok {
		// deleted while we were fetching
		return nil, ErrNotFound
	}

	s.logger.WithFields(map[string]interface{}{
		"table_id":  table.ID,
		"owner":     owner,
		"source_id": table.Source.SourceID,
		"columns":   len(columns),
		"rows":      len(data),
	}).Info("table synced")

	return table, nil
}

// DeleteTable removes the table with tableID owned by owner
func (s *DefaultService) DeleteTable(ctx context.Context, owner, tableID string) error {
	ok, err := s.repo.DeleteTable(ctx, tableID, owner)
	if err != nil {
		return fmt.Errorf("error deleting table: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	s.logger.WithFields(map[string]interface{}{
		"table_id": tableID,
		"owner":    owner,
	}).Info("table deleted")

	return nil
}

// SyncAll syncs every stored table in its owner's scope
func (s *DefaultService) SyncAll(ctx context.Context) (int, int, error) {
	tables, err := s.repo.ListAllTables(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing tables: %w", err)
	}

	synced, failed := 0, 0
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return synced, failed, err
		}

		if _, err := s.SyncTable(ctx, t.Owner, t.ID); err != nil {
			failed++
			s.logger.WithFields(map[string]interface{}{
				"table_id": t.ID,
				"owner":    t.Owner,
			}).WithError(err).Warn("scheduled sync failed")
			continue
		}
		synced++
	}

	return synced, failed, nil
}

// pull fetches and normalizes a sheet, returning provider and
// normalization errors unchanged.
func (s *DefaultService) pull(ctx context.Context, sheetID string) (models.Columns, models.Records, error) {
	grid, err := s.fetcher.Fetch(ctx, sheetID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"source_id": sheetID,
		}).WithError(err).Warn("sheet fetch failed")
		return nil, nil, err
	}

	return sheets.Normalize(grid)
}
