package application

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// ImageUpload is an optional profile image submitted with a create or update.
type ImageUpload struct {
	Filename string
	Data     []byte
}

type inspectedImage struct {
	data        []byte
	ext         string
	contentType string
}

var allowedImageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// inspectImage sniffs the content rather than trusting the client's filename
// or content type. It returns the message to report on the image field.
func inspectImage(img *ImageUpload, maxBytes int64) (*inspectedImage, string) {
	if len(img.Data) == 0 {
		return nil, "must be a file"
	}
	if maxBytes > 0 && int64(len(img.Data)) > maxBytes {
		return nil, fmt.Sprintf("may not be greater than %d kilobytes", maxBytes/1024)
	}
	mt := mimetype.Detect(img.Data)
	if !allowedImageExt[mt.Extension()] {
		return nil, "must be a file of type: png, jpg, jpeg"
	}
	return &inspectedImage{data: img.Data, ext: mt.Extension(), contentType: mt.String()}, ""
}
