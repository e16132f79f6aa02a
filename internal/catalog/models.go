// Package catalog holds the bibliographic resources: books, writers,
// publications, subjects and translators.
package catalog

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openshelf/openshelf/internal/crud"
)

type Book struct {
	crud.Meta     `bson:",inline"`
	Title         string               `bson:"title" json:"title"`
	WriterID      primitive.ObjectID   `bson:"writerId" json:"writerId"`
	PublicationID primitive.ObjectID   `bson:"publicationId,omitempty" json:"publicationId,omitempty"`
	TranslatorID  primitive.ObjectID   `bson:"translatorId,omitempty" json:"translatorId,omitempty"`
	SubjectIDs    []primitive.ObjectID `bson:"subjectIds" json:"subjectIds"`
	Summary       string               `bson:"summary,omitempty" json:"summary,omitempty"`
	Price         float64              `bson:"price" json:"price"`
	PageCount     int                  `bson:"pageCount" json:"pageCount"`
	Edition       string               `bson:"edition,omitempty" json:"edition,omitempty"`
	CoverURL      string               `bson:"coverUrl,omitempty" json:"coverUrl,omitempty"`
}

type Writer struct {
	crud.Meta `bson:",inline"`
	Name      string `bson:"name" json:"name"`
	Biography string `bson:"biography,omitempty" json:"biography,omitempty"`
}

type Publication struct {
	crud.Meta   `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
}

type Subject struct {
	crud.Meta   `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type Translator struct {
	crud.Meta `bson:",inline"`
	Name      string `bson:"name" json:"name"`
	Biography string `bson:"biography,omitempty" json:"biography,omitempty"`
}
