package models

import "time"

// ImageRecord is the client-facing view of one stored gallery image.
// Path, ModalPath and ThumbnailPath are web-servable relative paths; all
// three binaries share the record ID as their base filename.
type ImageRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Path          string    `json:"path"`
	ModalPath     string    `json:"modalPath"`
	ThumbnailPath string    `json:"thumbnailPath"`
	UploadDate    time.Time `json:"uploadDate"`
}

// VariantSet holds the three derived byte streams for one upload plus the
// file extension (with leading dot) shared by the binaries.
type VariantSet struct {
	Original  []byte
	Modal     []byte
	Thumbnail []byte
	Ext       string
}

// PlaceholderRecords returns the fixed record set served in design-time
// preview mode. The slice is rebuilt on every call so callers may mutate
// their copy freely.
func PlaceholderRecords() []ImageRecord {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	out := make([]ImageRecord, 0, len(placeholderTitles))
	for i, title := range placeholderTitles {
		id := placeholderIDs[i]
		out = append(out, ImageRecord{
			ID:            id,
			Title:         title,
			Path:          "/images/" + id + "_original.png",
			ModalPath:     "/images/" + id + "_modal.png",
			ThumbnailPath: "/images/" + id + "_thumb.png",
			UploadDate:    base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}

var (
	placeholderTitles = []string{"Sample sunset", "Sample portrait", "Sample landscape"}
	placeholderIDs    = []string{"1705320000000_p1aceh01", "1705316400000_p1aceh02", "1705312800000_p1aceh03"}
)
