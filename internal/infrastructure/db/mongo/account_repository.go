package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

type MongoAccountRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{db: db, coll: db.Collection(collectionAccounts)}
}

type mongoAccount struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	Name         string `bson:"name"`
	PasswordHash string `bson:"password_hash"`
	Authorities  string `bson:"authorities"`
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionAccounts)
	if err != nil {
		return err
	}

	doc := mongoAccount{
		ID:           id,
		Username:     account.Username,
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		Authorities:  domain.JoinAuthorities(account.Authorities),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	account.ID = id
	return nil
}

func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	return &domain.Account{
		ID:           ma.ID,
		Username:     ma.Username,
		Name:         ma.Name,
		PasswordHash: ma.PasswordHash,
		Authorities:  domain.ParseAuthorities(ma.Authorities),
	}, nil
}
