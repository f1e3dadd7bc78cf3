package model

// Record is the domain model for a todo entry served by the memory store.
// Completed is only ever flipped in UI state; the store never rewrites it.
type Record struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewRecord is the partial accepted by append: only the title is caller-owned.
type NewRecord struct {
	Title string `json:"title"`
}
