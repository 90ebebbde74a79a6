package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductionRecord — one row of the canonical crop-production table.
// Built once by dataset.Normalize and treated as read-only afterwards;
// filtered views are new slices over the same records.
type ProductionRecord struct {
	DatasetID primitive.ObjectID `bson:"datasetId,omitempty" json:"-"`

	State    string `bson:"state"            json:"state"`
	District string `bson:"district"         json:"district"`
	Crop     string `bson:"crop"             json:"crop"`
	Season   string `bson:"season,omitempty" json:"season,omitempty"`

	// Year is nil when the raw year field could not be parsed. Such rows
	// stay in the table but are skipped by year-based filtering and by the
	// decline window.
	Year *int `bson:"year,omitempty" json:"year,omitempty"`

	Area       float64 `bson:"area"       json:"area"`
	Production float64 `bson:"production" json:"production"`

	// Yield = Production / Area. Nil when Area == 0 or the division is not
	// finite. Never zero, never infinite.
	Yield *float64 `bson:"yield,omitempty" json:"yield,omitempty"`
}

// Dataset — metadata for one uploaded dataset. ContentHash is the sha256 of
// the raw upload and keys both re-upload dedup and the snapshot cache.
type Dataset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId"       json:"ownerId"`
	Name        string             `bson:"name"          json:"name"`
	ContentHash string             `bson:"contentHash"   json:"contentHash"`
	RowCount    int                `bson:"rowCount"      json:"rowCount"`
	MinYear     *int               `bson:"minYear,omitempty" json:"minYear,omitempty"`
	MaxYear     *int               `bson:"maxYear,omitempty" json:"maxYear,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"     json:"createdAt"`
}
