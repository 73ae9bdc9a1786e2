package model

// Tag types. A tag is either a programming language ("javascript") or a
// free-form topic ("sorting", "react"). The slug is unique within its type.
const (
	TagTypeLanguage = "language"
	TagTypeTopic    = "topic"
)

// Tag is a named label with a maintained reference count.
//
// Count is a denormalised cache: the number of current snippets whose language
// equals the slug (language tags) or whose topics contain the slug (topic
// tags). It is recomputed wholesale after every snippet mutation — it is never
// the source of truth, just a cheap read path for the filter UI.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Type  string `json:"type"` // TagTypeLanguage or TagTypeTopic
	Count int64  `json:"count"`
}
