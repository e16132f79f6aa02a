package crud

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter helpers turn optional query parameters into Mongo filter clauses.
// Empty values never add a clause, so an unfiltered list stays a full scan.

// Substring adds a case-insensitive substring match on field.
func Substring(f bson.M, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	f[field] = primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

// Eq adds an exact match on field.
func Eq(f bson.M, field, value string) {
	if value == "" {
		return
	}
	f[field] = value
}

// EqBool adds an exact match on a boolean field when the pointer is set.
func EqBool(f bson.M, field string, value *bool) {
	if value == nil {
		return
	}
	f[field] = *value
}

// EqID adds an exact match on an ObjectID-valued field. Non-hex input is
// rejected earlier by validation; if it slips through, no clause is added.
func EqID(f bson.M, field, hex string) {
	if hex == "" {
		return
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return
	}
	f[field] = oid
}
