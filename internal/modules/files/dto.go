package files

import (
	"io"

	"filesmanager/internal/domain"
)

// CreateFileRequest is the body of POST /files. Data is the base64 payload.
type CreateFileRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID domain.ParentID `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// Content is an opened payload. The caller closes Body.
type Content struct {
	File        *domain.File
	Body        io.ReadSeekCloser
	Size        int64
	ContentType string
}
