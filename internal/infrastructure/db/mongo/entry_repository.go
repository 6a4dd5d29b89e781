package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

// EntryRepository implements ports.EntryRepository using MongoDB.
type EntryRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{db: db, col: db.Collection(collectionEntries)}
}

func sortSpec(p domain.PageRequest) bson.D {
	dir := 1
	if p.Descending {
		dir = -1
	}
	if p.SortBy == domain.SortByName {
		return bson.D{{Key: "name", Value: dir}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "_id", Value: dir}}
}

func (r *EntryRepository) List(ctx context.Context, p domain.PageRequest) ([]domain.Entry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(p)).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Size))

	entries, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	return entries, total, nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entries, err := r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Entry
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return &e, nil
}

func (r *EntryRepository) FindByName(ctx context.Context, name string) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entries, err := r.find(ctx, bson.M{"name": name}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find entries by name: %w", err)
	}
	return entries, nil
}

// Create draws the next id from the entries sequence, then inserts. A single
// document insert is atomic, so no session is needed.
func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionEntries)
	if err != nil {
		return err
	}

	doc := domain.Entry{ID: id, Name: e.Name}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	e.ID = id
	return nil
}

func (r *EntryRepository) Update(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": e.ID}, bson.M{"$set": bson.M{"name": e.Name}})
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Entry, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	entries := []domain.Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
