package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tswtrack/internal/model"
)

// CheckInRepo is the persistence boundary for check-ins.
type CheckInRepo interface {
	Create(ctx context.Context, checkin *model.CheckIn) error
	GetByID(ctx context.Context, id string) (*model.CheckIn, error)
	ListByUser(ctx context.Context, userID string) ([]model.CheckIn, error)
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.CheckIn, error)
	Update(ctx context.Context, checkin *model.CheckIn) error
	Delete(ctx context.Context, id string) error
}

type checkInRepo struct {
	collection *mongo.Collection
}

// NewCheckInRepo creates a mongo-backed check-in repository.
func NewCheckInRepo(db *mongo.Database) CheckInRepo {
	return &checkInRepo{
		collection: db.Collection("checkins"),
	}
}

func (r *checkInRepo) Create(ctx context.Context, checkin *model.CheckIn) error {
	now := time.Now()
	if checkin.CreatedAt.IsZero() {
		checkin.CreatedAt = now
	}
	checkin.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, checkin)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		checkin.ID = oid.Hex()
	}
	return nil
}

func (r *checkInRepo) GetByID(ctx context.Context, id string) (*model.CheckIn, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var checkin model.CheckIn
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&checkin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *checkInRepo) ListByUser(ctx context.Context, userID string) ([]model.CheckIn, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *checkInRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.CheckIn, error) {
	return r.list(ctx, bson.M{
		"userId":    userID,
		"timestamp": bson.M{"$gte": since},
	})
}

func (r *checkInRepo) list(ctx context.Context, filter bson.M) ([]model.CheckIn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkins []model.CheckIn
	if err = cursor.All(ctx, &checkins); err != nil {
		return nil, err
	}
	return checkins, nil
}

func (r *checkInRepo) Update(ctx context.Context, checkin *model.CheckIn) error {
	oid, err := primitive.ObjectIDFromHex(checkin.ID)
	if err != nil {
		return err
	}
	checkin.UpdatedAt = time.Now()

	// $set on the struct would try to rewrite the immutable _id.
	update := bson.M{"$set": bson.M{
		"timestamp":     checkin.Timestamp,
		"skinFeeling":   checkin.SkinFeeling,
		"skinIntensity": checkin.SkinIntensity,
		"painScore":     checkin.PainScore,
		"sleepScore":    checkin.SleepScore,
		"triggers":      checkin.Triggers,
		"symptoms":      checkin.Symptoms,
		"treatments":    checkin.Treatments,
		"intensity":     checkin.Intensity,
		"updatedAt":     checkin.UpdatedAt,
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *checkInRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
