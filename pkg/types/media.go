package types

import "time"

// Media is an uploadable asset slot. It is registered first and the file is
// uploaded against its ID afterwards.
type Media struct {
	ID              string     `db:"id" json:"id"`
	Alias           string     `db:"alias" json:"alias"`
	MaxSize         int64      `db:"max_size" json:"max_size"`
	AllowsRewrite   bool       `db:"allows_rewrite" json:"allows_rewrite"`
	ValidExtensions []string   `db:"valid_extensions" json:"valid_extensions"`
	StorageKey      *string    `db:"storage_key" json:"-"`
	ContentType     *string    `db:"content_type" json:"content_type"`
	SizeBytes       *int64     `db:"size_bytes" json:"size_bytes"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UploadedAt      *time.Time `db:"uploaded_at" json:"uploaded_at"`
}

type MediaRegistration struct {
	MaxSize         int64
	AllowsRewrite   bool
	ValidExtensions []string
	Alias           string
}
