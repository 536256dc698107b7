package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/medoffice-api/pkg/validator"
)

var validate = validator.New()

// Base contains common fields for all documents
type Base struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Meta gives stores access to the system-managed fields of any document.
func (b *Base) Meta() *Base {
	return b
}

// Document is implemented by every stored entity through its embedded Base.
type Document interface {
	Meta() *Base
}

// ParseID converts a 24 character hex string into a document id.
func ParseID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

// Stamp assigns a fresh id and both timestamps. Timestamps are truncated to
// the millisecond, the resolution every store keeps.
func Stamp(doc Document, now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	meta := doc.Meta()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now
}

// Ref is the payload announcing a removed document.
type Ref struct {
	ID primitive.ObjectID `json:"_id" bson:"_id"`
}

func DeletedRef(id primitive.ObjectID) Ref {
	return Ref{ID: id}
}
