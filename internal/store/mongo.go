package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NalinDalal/ToDoist-be/internal/models"
)

// MongoStore handles users and todos in MongoDB. Integer ids come from
// per-collection sequences kept in the counters collection.
type MongoStore struct {
	users    *mongo.Collection
	todos    *mongo.Collection
	counters *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:    db.Collection("users"),
		todos:    db.Collection("todos"),
		counters: db.Collection("counters"),
	}
}

// EnsureIndexes creates the unique username index and the per-owner listing index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo users index: %w", err)
	}
	_, err = s.todos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo todos index: %w", err)
	}
	return nil
}

func (s *MongoStore) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("mongo next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	id, err := s.nextID(ctx, "users")
	if err != nil {
		return nil, err
	}
	u := models.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrUsernameTaken
		}
		return nil, fmt.Errorf("mongo insert user: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) CreateTask(ctx context.Context, ownerID int64, heading, body, status string) (*models.Task, error) {
	id, err := s.nextID(ctx, "todos")
	if err != nil {
		return nil, err
	}
	t := models.Task{
		ID:        id,
		Heading:   heading,
		Body:      body,
		Status:    status,
		UserID:    ownerID,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.todos.InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("mongo insert todo: %w", err)
	}
	return &t, nil
}

func (s *MongoStore) ListTasksByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.todos.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list todos: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("mongo decode todos: %w", err)
	}
	return tasks, nil
}

func (s *MongoStore) UpdateTaskStatus(ctx context.Context, id, ownerID int64, status string) (*models.Task, error) {
	var t models.Task
	err := s.todos.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": ownerID},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update todo: %w", err)
	}
	return &t, nil
}

func (s *MongoStore) DeleteTask(ctx context.Context, id, ownerID int64) error {
	res, err := s.todos.DeleteOne(ctx, bson.M{"_id": id, "user_id": ownerID})
	if err != nil {
		return fmt.Errorf("mongo delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
