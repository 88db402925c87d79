package storageconn

import (
	"io"
	"time"
)

// SignRequest asks the storage service for a pre-signed, time limited
// download url of one stored object.
type SignRequest struct {
	Bucket   string        `json:"bucket"`
	Key      string        `json:"key"`
	Filename string        `json:"filename,omitempty"`
	TTL      time.Duration `json:"ttl"`
}

type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UploadRequest struct {
	Bucket   string    `json:"bucket"`
	Key      string    `json:"key"`
	Filename string    `json:"filename,omitempty"`
	File     io.Reader `json:"-"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	Size uint64 `json:"size"`
}
