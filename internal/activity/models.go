// Package activity holds the reader-activity resources: favourites, the
// bounded recently-visited list, lendings, reviews, book requests and the
// trending/desired rankings derived from them.
package activity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openshelf/openshelf/internal/crud"
)

type Favourite struct {
	crud.Meta `bson:",inline"`
	UserID    string             `bson:"userId" json:"userId"`
	BookID    primitive.ObjectID `bson:"bookId" json:"bookId"`
}

type Lending struct {
	crud.Meta  `bson:",inline"`
	BookID     primitive.ObjectID `bson:"bookId" json:"bookId"`
	UserID     string             `bson:"userId" json:"userId"`
	DueDate    time.Time          `bson:"dueDate" json:"dueDate"`
	ReturnedAt *time.Time         `bson:"returnedAt,omitempty" json:"returnedAt,omitempty"`
}

type Review struct {
	crud.Meta `bson:",inline"`
	BookID    primitive.ObjectID `bson:"bookId" json:"bookId"`
	UserID    string             `bson:"userId" json:"userId"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
}

type RequestBook struct {
	crud.Meta  `bson:",inline"`
	Title      string `bson:"title" json:"title"`
	WriterName string `bson:"writerName,omitempty" json:"writerName,omitempty"`
	Note       string `bson:"note,omitempty" json:"note,omitempty"`
	CoverURL   string `bson:"coverUrl,omitempty" json:"coverUrl,omitempty"`
}

// visitList is the per-user recently-visited document; one per user, the
// books array ordered oldest first.
type visitList struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	UserID    string               `bson:"userId"`
	BookIDs   []primitive.ObjectID `bson:"bookIds"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}
