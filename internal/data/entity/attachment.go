package entity

import "github.com/google/uuid"

type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentVideo    AttachmentType = "video"
	AttachmentAudio    AttachmentType = "audio"
	AttachmentDocument AttachmentType = "document"
	AttachmentOther    AttachmentType = "other"
)

// Attachment holds metadata only; the file bytes live in external storage.
type Attachment struct {
	BaseSimple
	UploaderID uuid.UUID      `db:"uploader_id"`
	FileName   string         `db:"file_name"`
	FileType   AttachmentType `db:"file_type"`
	FileSize   int64          `db:"file_size"`
	URL        string         `db:"url"`
}
