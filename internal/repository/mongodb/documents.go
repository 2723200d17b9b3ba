package mongodb

import (
	"context"
	"errors"

	"doc-attest/internal/model"
	"doc-attest/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func (r Repository) LoadAll(ctx context.Context) ([]model.Document, error) {
	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.New("failed to query the documents: " + err.Error())
	}
	defer cursor.Close(ctx)

	var docs []model.Document
	for cursor.Next(ctx) {
		var stored repository.StoredDocument
		if err := cursor.Decode(&stored); err != nil {
			return nil, errors.New("failed to decode a stored document: " + err.Error())
		}

		doc, err := stored.ToModel()
		if err != nil {
			r.logger.Error("skipping a corrupted document record: "+err.Error(),
				zap.String("documentID", stored.ID))
			continue
		}
		docs = append(docs, doc)
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.New("cursor error while loading documents: " + err.Error())
	}

	return docs, nil
}

func (r Repository) SaveAll(ctx context.Context, docs []model.Document) error {
	for _, doc := range docs {
		if err := r.Put(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (r Repository) Get(ctx context.Context, id string) (model.Document, error) {
	var stored repository.StoredDocument

	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		return model.Document{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Document{}, errors.New("failed to get the document: " + err.Error())
	}

	return stored.ToModel()
}

func (r Repository) Put(ctx context.Context, doc model.Document) error {
	stored := repository.NewStoredDocument(doc)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection().ReplaceOne(ctx, bson.M{"_id": doc.ID}, stored, opts); err != nil {
		return errors.New("failed to store the document: " + err.Error())
	}

	return nil
}
