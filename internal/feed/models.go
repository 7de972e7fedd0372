package feed

import "encoding/json"

// Fields is a schemaless document body. Publications and comments accept
// whatever mapping the caller sent; no shape is enforced server-side.
type Fields map[string]any

// Document pairs a store-assigned id with the stored fields.
type Document struct {
	ID     string
	Fields Fields
}

// MarshalJSON flattens the document to {"id": ..., <fields>...}, the wire
// shape clients expect for publications and comments.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["id"] = d.ID
	return json.Marshal(out)
}

// Like marks that a user liked a publication. Exactly one like exists per
// (publication, user) pair; the pair is the identity, so re-liking overwrites.
type Like struct {
	PublicationID string `bson:"publicationId" json:"publicationId"`
	UserID        string `bson:"userId" json:"userId"`
}
