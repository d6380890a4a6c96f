package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Owner-scoped document access, shared by all four resource kinds. Every
// by-id operation filters on _id AND owner_id in a single query, so a
// missing document and someone else's document produce the same ErrNotFound.

func findOwned[T any](ctx context.Context, coll *mongo.Collection, owner, id primitive.ObjectID) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, bson.M{"_id": id, "owner_id": owner}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// listOwned returns every document of the owner, optionally narrowed by one
// extra equality condition. The result is never nil so an empty list
// serializes as [].
func listOwned[T any](ctx context.Context, coll *mongo.Collection, owner primitive.ObjectID, extra bson.M, sort bson.D) ([]T, error) {
	filter := bson.M{"owner_id": owner}
	for k, v := range extra {
		filter[k] = v
	}
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

func insertOwned[T any](ctx context.Context, coll *mongo.Collection, doc *T) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// patchOwned applies a $set of explicitly-present fields and returns the
// post-update document. An empty set is a plain read: the record comes back
// untouched.
func patchOwned[T any](ctx context.Context, coll *mongo.Collection, owner, id primitive.ObjectID, set bson.M) (*T, error) {
	if len(set) == 0 {
		return findOwned[T](ctx, coll, owner, id)
	}
	res := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner_id": owner},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var doc T
	if err := res.Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func deleteOwned(ctx context.Context, coll *mongo.Collection, owner, id primitive.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id, "owner_id": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
