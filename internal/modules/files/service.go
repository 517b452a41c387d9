package files

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"mime"
	"path/filepath"
	"strings"

	"filesmanager/internal/domain"
	"filesmanager/internal/metrics"
	"filesmanager/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// PageSize is the fixed number of records per listing page.
const PageSize = 20

const maxPage = math.MaxInt32 / PageSize

// Service owns the file lifecycle: creation, visibility and reads.
type Service struct {
	files   FileRepository
	blobs   BlobStore
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewService(files FileRepository, blobs BlobStore, log *zap.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{files: files, blobs: blobs, log: log, metrics: m}
}

// Create validates req and stores a folder record, or a payload followed by
// its record. Checks run in order: name, type, data, parent.
func (s *Service) Create(ctx context.Context, userID string, req CreateFileRequest) (*domain.File, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: FieldName}
	}

	fileType := domain.FileType(req.Type)
	if !fileType.Valid() {
		return nil, &ValidationError{Field: FieldType}
	}

	var payload []byte
	if fileType != domain.TypeFolder {
		if req.Data == "" {
			return nil, &ValidationError{Field: FieldData}
		}
		decoded, ok := decodePayload(req.Data)
		if !ok {
			return nil, &ValidationError{Field: FieldData, Invalid: true}
		}
		payload = decoded
	}

	parentID := req.ParentID.Normalize()
	if !parentID.IsRoot() {
		parent, err := s.files.GetByID(ctx, string(parentID))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("%w: lookup parent: %w", ErrInternal, err)
		}
		if !parent.IsFolder() {
			return nil, ErrParentNotAFolder
		}
	}

	file := &domain.File{
		UserID:   userID,
		Name:     req.Name,
		Type:     fileType,
		IsPublic: req.IsPublic,
		ParentID: parentID,
	}

	if file.IsFolder() {
		if err := s.files.Create(ctx, file); err != nil {
			s.log.Error("failed to insert folder", zap.String("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("%w: insert folder: %w", ErrInternal, err)
		}
		s.metrics.RecordFileCreated(string(file.Type), 0)
		return file, nil
	}

	// Blob first, record second. A crash in between leaves an orphan blob
	// for the sweep; a failed insert removes it right away.
	path, err := s.blobs.Put(ctx, payload)
	if err != nil {
		s.log.Error("failed to store payload", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: store payload: %w", ErrInternal, err)
	}
	file.LocalPath = path

	if err := s.files.Create(ctx, file); err != nil {
		s.log.Error("failed to insert file, removing blob",
			zap.String("user_id", userID),
			zap.String("local_path", path),
			zap.Error(err),
		)
		if rmErr := s.blobs.Remove(path); rmErr != nil {
			s.log.Warn("orphan blob left behind", zap.String("local_path", path), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("%w: insert file: %w", ErrInternal, err)
	}

	s.metrics.RecordFileCreated(string(file.Type), len(payload))
	return file, nil
}

// Show returns a record owned by userID.
func (s *Service) Show(ctx context.Context, userID, fileID string) (*domain.File, error) {
	file, err := s.files.GetByIDAndOwner(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(reasonNotOwner)
		}
		return nil, fmt.Errorf("%w: lookup file: %w", ErrInternal, err)
	}
	return file, nil
}

// Open resolves fileID for requesterID (empty when anonymous) and opens its
// payload. Existence is checked before visibility, visibility before type.
func (s *Service) Open(ctx context.Context, requesterID, fileID string) (*Content, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(reasonMissing)
		}
		return nil, fmt.Errorf("%w: lookup file: %w", ErrInternal, err)
	}

	if !file.IsPublic && !file.IsOwnedBy(requesterID) {
		return nil, notFound(reasonHidden)
	}

	if file.IsFolder() {
		return nil, ErrInvalidOperation
	}

	body, size, err := s.blobs.Open(file.LocalPath)
	if err != nil {
		s.log.Warn("payload unavailable",
			zap.String("file_id", file.ID),
			zap.String("local_path", file.LocalPath),
			zap.Error(err),
		)
		s.metrics.RecordContentRead(0, false)
		return nil, notFound(reasonBlobMissing)
	}

	contentType, err := contentType(file.Name, body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("%w: sniff content type: %w", ErrInternal, err)
	}

	s.metrics.RecordContentRead(size, true)
	return &Content{File: file, Body: body, Size: size, ContentType: contentType}, nil
}

// List yields the children of parentID on the given page. The query runs
// each time the sequence is ranged over.
//
// Listing does not filter by owner: any authenticated user can list any
// parent, while Show, Open and SetVisibility do enforce ownership.
// Store errors are logged and produce an empty sequence.
func (s *Service) List(ctx context.Context, parentID domain.ParentID, page int) iter.Seq[*domain.File] {
	if page < 0 {
		page = 0
	}
	parent := parentID.Normalize()

	return func(yield func(*domain.File) bool) {
		if page > maxPage {
			return
		}
		files, err := s.files.ListByParent(ctx, string(parent), page*PageSize, PageSize)
		if err != nil {
			s.log.Error("failed to list files",
				zap.String("parent_id", string(parent)),
				zap.Int("page", page),
				zap.Error(err),
			)
			return
		}
		for _, f := range files {
			if !yield(f) {
				return
			}
		}
	}
}

// SetVisibility flips isPublic on a file owned by userID.
func (s *Service) SetVisibility(ctx context.Context, userID, fileID string, public bool) (*domain.File, error) {
	file, err := s.files.GetByIDAndOwner(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(reasonNotOwner)
		}
		return nil, fmt.Errorf("%w: lookup file: %w", ErrInternal, err)
	}

	if err := s.files.UpdateVisibility(ctx, file.ID, public); err != nil {
		s.log.Error("failed to update visibility", zap.String("file_id", file.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: update visibility: %w", ErrInternal, err)
	}

	file.IsPublic = public
	return file, nil
}

// decodePayload accepts padded or unpadded, standard or URL-safe base64.
func decodePayload(data string) ([]byte, bool) {
	data = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, data)

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(data); err == nil {
			return b, true
		}
	}
	return nil, false
}

// contentType derives the type from the name's extension and falls back to
// sniffing the first bytes. body is rewound afterwards.
func contentType(name string, body io.ReadSeeker) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct, nil
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mimetype.Detect(head[:n]).String(), nil
}
