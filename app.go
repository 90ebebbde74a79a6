package main

import (
	"context"

	"cropwatch/dataset"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	cfg      Config
	mongo    *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	datasets *mongo.Collection
	records  *mongo.Collection

	// Normalized-table snapshots keyed by upload content hash. Analysis
	// handlers read through this so repeated queries against the same
	// dataset hit Mongo once.
	snapshots *dataset.Cache
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)

	app := &App{
		cfg:       cfg,
		mongo:     client,
		db:        db,
		users:     db.Collection("users"),
		datasets:  db.Collection("datasets"),
		records:   db.Collection("records"),
		snapshots: dataset.NewCache(),
	}
	// Indexes
	if _, err := app.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := app.datasets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.datasets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "contentHash", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := app.records.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "datasetId", Value: 1}},
	}); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }
