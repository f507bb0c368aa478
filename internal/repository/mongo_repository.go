package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection  = "users"
	tablesCollection = "tables"
)

// MongoRepository implements the Repository interface on a MongoDB database.
// Tables are stored as one document each, in the same shape the API returns.
type MongoRepository struct {
	users  *mongo.Collection
	tables *mongo.Collection
}

// NewMongoRepository creates a repository on db and ensures its indexes
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	r := &MongoRepository{
		users:  db.Collection(usersCollection),
		tables: db.Collection(tablesCollection),
	}

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = r.tables.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "source.sourceId", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tables indexes: %w", err)
	}

	return r, nil
}

// User repository methods
func (r *MongoRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.users.InsertOne(ctx, user)
	return err
}

func (r *MongoRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

func (r *MongoRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Table repository methods
func (r *MongoRepository) CreateTable(ctx context.Context, table *models.Table) error {
	if table.ID == "" {
		table.ID = uuid.New().String()
	}

	if table.CreatedAt.IsZero() {
		table.CreatedAt = time.Now().UTC()
	}
	table.CreatedAt = table.CreatedAt.Truncate(time.Millisecond)
	if table.LastUpdated.IsZero() {
		table.LastUpdated = table.CreatedAt
	}
	table.LastUpdated = table.LastUpdated.Truncate(time.Millisecond)

	_, err := r.tables.InsertOne(ctx, table)
	return err
}

func (r *MongoRepository) GetTable(ctx context.Context, tableID, owner string) (*models.Table, error) {
	var table models.Table
	err := r.tables.FindOne(ctx, ownedBy(tableID, owner)).Decode(&table)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	normalizeDecoded(&table)
	return &table, nil
}

func (r *MongoRepository) ListTables(ctx context.Context, owner string) ([]models.Table, error) {
	return r.findTables(ctx, bson.M{"owner": owner})
}

func (r *MongoRepository) ListAllTables(ctx context.Context) ([]models.Table, error) {
	return r.findTables(ctx, bson.M{})
}

func (r *MongoRepository) findTables(ctx context.Context, filter bson.M) ([]models.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.tables.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	tables := make([]models.Table, 0)
	if err := cursor.All(ctx, &tables); err != nil {
		return nil, err
	}

	for i := range tables {
		normalizeDecoded(&tables[i])
	}
	return tables, nil
}

func (r *MongoRepository) ReplaceTableContent(ctx context.Context, table *models.Table) (bool, error) {
	table.LastUpdated = table.LastUpdated.Truncate(time.Millisecond)

	columns := table.Columns
	if columns == nil {
		columns = models.Columns{}
	}
	data := table.Data
	if data == nil {
		data = models.Records{}
	}

	res, err := r.tables.UpdateOne(ctx, ownedBy(table.ID, table.Owner), bson.M{
		"$set": bson.M{
			"columns":     columns,
			"data":        data,
			"lastUpdated": table.LastUpdated,
		},
	})
	if err != nil {
		return false, err
	}

	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) DeleteTable(ctx context.Context, tableID, owner string) (bool, error) {
	res, err := r.tables.DeleteOne(ctx, ownedBy(tableID, owner))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func ownedBy(tableID, owner string) bson.M {
	return bson.M{"_id": tableID, "owner": owner}
}

// normalizeDecoded restores empty slices and UTC times after decoding
func normalizeDecoded(t *models.Table) {
	if t.Columns == nil {
		t.Columns = models.Columns{}
	}
	if t.Data == nil {
		t.Data = models.Records{}
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.LastUpdated = t.LastUpdated.UTC()
}
