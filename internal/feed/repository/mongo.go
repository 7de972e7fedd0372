package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spilno/spilno-backend/internal/feed"
	"github.com/spilno/spilno-backend/pkg/logger"
)

// MongoPublications implements Publications on a Mongo collection.
// Documents are stored exactly as the caller supplied them; the store-assigned
// ObjectID serves as the external id.
type MongoPublications struct {
	col *mongo.Collection
}

func NewMongoPublications(col *mongo.Collection) *MongoPublications {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}
	if _, err := col.Indexes().CreateOne(context.Background(), idx); err != nil {
		logger.Warnf("create publications userId index: %v", err)
	}
	return &MongoPublications{col: col}
}

func (r *MongoPublications) List(ctx context.Context) ([]feed.Document, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoPublications) ListByUser(ctx context.Context, userID string) ([]feed.Document, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *MongoPublications) find(ctx context.Context, filter bson.M) ([]feed.Document, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []feed.Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, docFromRaw(raw))
	}
	return out, cur.Err()
}

func (r *MongoPublications) Create(ctx context.Context, fields feed.Fields) (string, error) {
	if fields == nil {
		fields = feed.Fields{}
	}
	res, err := r.col.InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (r *MongoPublications) Update(ctx context.Context, id string, fields feed.Fields) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if len(fields) == 0 {
		// nothing to merge; still report whether the document exists
		if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return err
		}
		return nil
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPublications) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// unknown ids delete to nothing; delete is idempotent
		return nil
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// MongoComments implements Comments. The parent publication id is kept as an
// indexed field and stripped again on the way out.
type MongoComments struct {
	col *mongo.Collection
}

func NewMongoComments(col *mongo.Collection) *MongoComments {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "publicationId", Value: 1}, {Key: "createdAt", Value: -1}}}
	if _, err := col.Indexes().CreateOne(context.Background(), idx); err != nil {
		logger.Warnf("create comments publicationId index: %v", err)
	}
	return &MongoComments{col: col}
}

func (r *MongoComments) Create(ctx context.Context, publicationID string, fields feed.Fields) (string, error) {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	doc["publicationId"] = publicationID
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (r *MongoComments) ListByPublication(ctx context.Context, publicationID string) ([]feed.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"publicationId": publicationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []feed.Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		delete(raw, "publicationId")
		out = append(out, docFromRaw(raw))
	}
	return out, cur.Err()
}

// MongoLikes implements Likes. A unique compound index makes the
// (publicationId, userId) pair the like's identity, so Put is a plain
// replace-with-upsert.
type MongoLikes struct {
	col *mongo.Collection
}

func NewMongoLikes(col *mongo.Collection) *MongoLikes {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "publicationId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	// without this index nothing enforces one like per user
	if _, err := col.Indexes().CreateOne(context.Background(), idx); err != nil {
		logger.Warnf("create likes unique index: %v", err)
	}
	return &MongoLikes{col: col}
}

func (r *MongoLikes) Put(ctx context.Context, publicationID, userID string) error {
	filter := bson.M{"publicationId": publicationID, "userId": userID}
	like := feed.Like{PublicationID: publicationID, UserID: userID}
	_, err := r.col.ReplaceOne(ctx, filter, like, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoLikes) Delete(ctx context.Context, publicationID, userID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"publicationId": publicationID, "userId": userID})
	return err
}

func (r *MongoLikes) Count(ctx context.Context, publicationID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"publicationId": publicationID})
}

func (r *MongoLikes) Exists(ctx context.Context, publicationID, userID string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"publicationId": publicationID, "userId": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func docFromRaw(raw bson.M) feed.Document {
	id := idString(raw["_id"])
	delete(raw, "_id")
	return feed.Document{ID: id, Fields: feed.Fields(raw)}
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}
