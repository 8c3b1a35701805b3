package media

import "time"

// Asset is an uploaded file stored in the object store.
type Asset struct {
	ID          int64
	UploaderID  int64
	Key         string
	FileName    string
	ContentType string
	SizeBytes   int64
	URL         string
	CreatedAt   time.Time
}
