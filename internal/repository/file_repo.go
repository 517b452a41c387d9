package repository

import (
	"context"
	"time"

	"filesmanager/internal/domain"

	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// fileModel keeps parent_id as an integer; 0 is the root.
type fileModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;index;not null"`
	Name      string    `gorm:"column:name;not null"`
	Type      string    `gorm:"column:type;size:16;not null"`
	ParentID  int64     `gorm:"column:parent_id;index;not null"`
	IsPublic  bool      `gorm:"column:is_public;not null"`
	LocalPath *string   `gorm:"column:local_path"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (fileModel) TableName() string { return "files" }

func toDomainFile(m fileModel) *domain.File {
	f := &domain.File{
		ID:       formatID(m.ID),
		UserID:   formatID(m.UserID),
		Name:     m.Name,
		Type:     domain.FileType(m.Type),
		IsPublic: m.IsPublic,
		ParentID: domain.RootID,
	}
	if m.ParentID != 0 {
		f.ParentID = domain.ParentID(formatID(m.ParentID))
	}
	if m.LocalPath != nil {
		f.LocalPath = *m.LocalPath
	}
	return f
}

// Create inserts f and assigns its id.
func (r *FileRepository) Create(ctx context.Context, f *domain.File) error {
	userID, ok := parseID(f.UserID)
	if !ok {
		return ErrNotFound
	}

	m := fileModel{
		UserID:   userID,
		Name:     f.Name,
		Type:     string(f.Type),
		IsPublic: f.IsPublic,
	}
	if !f.ParentID.IsRoot() {
		parentID, ok := parseID(string(f.ParentID))
		if !ok {
			return ErrNotFound
		}
		m.ParentID = parentID
	}
	if f.LocalPath != "" {
		p := f.LocalPath
		m.LocalPath = &p
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	f.ID = formatID(m.ID)
	f.ParentID = f.ParentID.Normalize()
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var m fileModel
	if err := r.db.WithContext(ctx).First(&m, pk).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainFile(m), nil
}

func (r *FileRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*domain.File, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	owner, ok := parseID(userID)
	if !ok {
		return nil, ErrNotFound
	}
	var m fileModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", pk, owner).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainFile(m), nil
}

// ListByParent returns children of parentID in insertion order.
func (r *FileRepository) ListByParent(ctx context.Context, parentID string, offset, limit int) ([]*domain.File, error) {
	var pid int64
	if !domain.ParentID(parentID).IsRoot() {
		n, ok := parseID(parentID)
		if !ok {
			return []*domain.File{}, nil
		}
		pid = n
	}

	var rows []fileModel
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", pid).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*domain.File, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainFile(m))
	}
	return out, nil
}

func (r *FileRepository) UpdateVisibility(ctx context.Context, id string, isPublic bool) error {
	pk, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}
	tx := r.db.WithContext(ctx).
		Model(&fileModel{}).
		Where("id = ?", pk).
		Update("is_public", isPublic)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&fileModel{}).Count(&n).Error
	return n, err
}

// ListLocalPaths returns every blob path referenced by a file record.
func (r *FileRepository) ListLocalPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&fileModel{}).
		Where("local_path IS NOT NULL").
		Pluck("local_path", &paths).Error
	return paths, err
}

// AutoMigrate creates or updates the users and files tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &fileModel{})
}
