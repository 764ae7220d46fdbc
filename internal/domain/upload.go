package domain

// FileInfo is what the generators get to see of an uploaded file: its
// declared type and size, never its content.
type FileInfo struct {
	ObjectKey   string `bson:"objectKey,omitempty" json:"objectKey,omitempty"`
	FileName    string `bson:"fileName,omitempty" json:"fileName,omitempty"`
	ContentType string `bson:"contentType" json:"contentType"`
	Size        int64  `bson:"size" json:"size"`
}

// UploadFeature scopes object keys to the flow that requested them.
type UploadFeature string

const (
	UploadBodyPhoto UploadFeature = "body-photos"
	UploadBloodTest UploadFeature = "blood-tests"
)

func (f UploadFeature) Valid() bool {
	return f == UploadBodyPhoto || f == UploadBloodTest
}
