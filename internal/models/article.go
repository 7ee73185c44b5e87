package models

// Article is a knowledge-base document as returned by the search backend.
type Article struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Text     string  `json:"text"`
	Score    float64 `json:"@search.score"`
}

// Facet is a category value with its document count, used to let the user
// narrow a search by value.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
