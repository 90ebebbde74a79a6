package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"cropwatch/dataset"
	"cropwatch/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Upload size cap. The full India crop-production CSV is ~25MB.
const maxUploadBytes = 64 << 20

// handleUploadDataset ingests a raw CSV or XLSX body, normalizes it into
// the canonical table and stores dataset metadata plus records. Re-uploads
// of byte-identical content return the existing dataset.
func (a *App) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil || len(raw) == 0 {
		http.Error(w, "empty or unreadable body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	var rows []dataset.RawRow
	switch uploadFormat(r) {
	case "xlsx":
		rows, err = dataset.ReadXLSX(raw)
	default:
		rows, err = dataset.ReadCSV(bytes.NewReader(raw))
	}
	if err != nil {
		http.Error(w, "parse error: "+err.Error(), http.StatusBadRequest)
		return
	}

	records := dataset.Normalize(rows)
	if len(records) == 0 {
		http.Error(w, "no usable rows in upload", http.StatusBadRequest)
		return
	}

	hash := dataset.ContentHash(raw)
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// Same bytes uploaded before: hand back the existing dataset.
	var existing models.Dataset
	err = a.datasets.FindOne(ctx, bson.M{"ownerId": uid, "contentHash": hash}).Decode(&existing)
	if err == nil {
		_ = json.NewEncoder(w).Encode(existing)
		return
	}

	minYear, maxYear := dataset.YearRange(records)
	ds := models.Dataset{
		OwnerID:     uid,
		Name:        name,
		ContentHash: hash,
		RowCount:    len(records),
		MinYear:     minYear,
		MaxYear:     maxYear,
		CreatedAt:   time.Now(),
	}
	res, err := a.datasets.InsertOne(ctx, &ds)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "dataset already exists", http.StatusConflict)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	ds.ID = res.InsertedID.(primitive.ObjectID)

	docs := make([]interface{}, len(records))
	for i := range records {
		records[i].DatasetID = ds.ID
		docs[i] = records[i]
	}
	if _, err := a.records.InsertMany(ctx, docs); err != nil {
		// Roll back the metadata so a retry is clean.
		_, _ = a.datasets.DeleteOne(ctx, bson.M{"_id": ds.ID})
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	a.snapshots.Put(hash, records)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(ds)
}

// handleListDatasets returns the current user's datasets, newest first.
func (a *App) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.datasets.Find(ctx, bson.M{"ownerId": uid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var out []models.Dataset
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleGetDataset returns dataset metadata by id (owned by the user).
func (a *App) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ds, err := a.findDataset(ctx, r, uid)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(ds)
}

// handleDeleteDataset removes a dataset, its records and its cached
// snapshot.
func (a *App) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ds, err := a.findDataset(ctx, r, uid)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if _, err := a.datasets.DeleteOne(ctx, bson.M{"_id": ds.ID, "ownerId": uid}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	_, _ = a.records.DeleteMany(ctx, bson.M{"datasetId": ds.ID})
	a.snapshots.Invalidate(ds.ContentHash)

	_ = json.NewEncoder(w).Encode(bson.M{"ok": true})
}

// ---- helpers ----

// findDataset resolves the {id} URL param to a dataset owned by uid.
func (a *App) findDataset(ctx context.Context, r *http.Request, uid primitive.ObjectID) (models.Dataset, error) {
	var ds models.Dataset
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return ds, err
	}
	err = a.datasets.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&ds)
	return ds, err
}

// loadSnapshot returns the normalized table for a dataset, going to Mongo
// only on a cache miss.
func (a *App) loadSnapshot(ctx context.Context, ds models.Dataset) ([]models.ProductionRecord, error) {
	if recs, ok := a.snapshots.Get(ds.ContentHash); ok {
		return recs, nil
	}
	cur, err := a.records.Find(ctx, bson.M{"datasetId": ds.ID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.ProductionRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	a.snapshots.Put(ds.ContentHash, recs)
	return recs, nil
}

// uploadFormat picks the reader: explicit ?format= wins, then Content-Type.
func uploadFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.ToLower(f)
	}
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "spreadsheet") || strings.Contains(ct, "excel") {
		return "xlsx"
	}
	return "csv"
}
