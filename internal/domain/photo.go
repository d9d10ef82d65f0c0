package domain

import "io"

// PhotoKind names whose profile a photo belongs to. The value doubles as the
// storage key segment.
type PhotoKind string

const (
	PhotoTeacher PhotoKind = "teachers"
	PhotoStudent PhotoKind = "students"
)

// Profile photo limits.
const (
	MaxPhotoSize     = 5 << 20 // 5 MiB upload limit
	ProfilePhotoSize = 400     // stored photos are square, this many pixels a side
	PhotoJPEGQuality = 85
)

// PhotoUpload is a profile photo on its way to storage.
type PhotoUpload struct {
	Kind        PhotoKind
	OwnerID     string
	ContentType string
	Size        int64
	Data        io.Reader
}
