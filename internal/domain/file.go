package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// RootID is the parent sentinel of a top-level file.
const RootID = "0"

// ParentID is either RootID or the id of a folder.
// On the wire the root is the number 0, any other parent is its id string.
type ParentID string

func (p ParentID) IsRoot() bool {
	return p == "" || p == RootID
}

// Normalize maps every falsy form of the root to RootID.
func (p ParentID) Normalize() ParentID {
	if p.IsRoot() {
		return RootID
	}
	return p
}

func (p ParentID) String() string {
	return string(p.Normalize())
}

func (p ParentID) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts a string, a number, false or null. 0, "0", "", false and null are root.
func (p *ParentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false", "0", `""`:
		*p = RootID
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParentID(strings.TrimSpace(s)).Normalize()
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parentId must be a string or a number: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("parentId must be an integer: %w", err)
	}
	*p = ParentID(n.String()).Normalize()
	return nil
}

// File is a folder or a stored payload. Folders never carry LocalPath.
type File struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Type      FileType `json:"type"`
	IsPublic  bool     `json:"isPublic"`
	ParentID  ParentID `json:"parentId"`
	LocalPath string   `json:"localPath,omitempty"`
}

func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}

func (f *File) IsOwnedBy(userID string) bool {
	return userID != "" && f.UserID == userID
}
