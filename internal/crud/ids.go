package crud

import "go.mongodb.org/mongo-driver/bson/primitive"

// OID converts one validated hex id; the zero ObjectID on failure.
func OID(hex string) primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(hex)
	return oid
}

// OIDs converts a list of already-validated hex ids. Entries that fail to
// parse are dropped rather than failing the whole conversion; validation
// upstream makes that path unreachable in practice.
func OIDs(hexes []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		if oid, err := primitive.ObjectIDFromHex(h); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
