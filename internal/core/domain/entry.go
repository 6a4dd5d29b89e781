package domain

// Entry is a single catalog item (an anime title).
type Entry struct {
	ID   int64  `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}
