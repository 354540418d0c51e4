package models

// Category is a spending category. Optional on a split; categories are
// created lazily on first reference and never deleted by the import path.
type Category struct {
	ID   int64
	Name string
}
