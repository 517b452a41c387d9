package mongostore

import (
	"context"
	"fmt"

	"filesmanager/internal/domain"
	"filesmanager/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fileDocument.ParentID is the int 0 for root entries and an ObjectID otherwise.
type fileDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	ParentID  interface{}        `bson:"parentId"`
	IsPublic  bool               `bson:"isPublic"`
	UserID    primitive.ObjectID `bson:"userId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

func (d fileDocument) toDomain() *domain.File {
	f := &domain.File{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Name:      d.Name,
		Type:      domain.FileType(d.Type),
		IsPublic:  d.IsPublic,
		ParentID:  domain.RootID,
		LocalPath: d.LocalPath,
	}
	switch p := d.ParentID.(type) {
	case primitive.ObjectID:
		f.ParentID = domain.ParentID(p.Hex())
	case string:
		f.ParentID = domain.ParentID(p).Normalize()
	}
	return f
}

// parentValue is what parentId is stored and queried as.
func parentValue(p domain.ParentID) (interface{}, bool) {
	if p.IsRoot() {
		return int32(0), true
	}
	oid, ok := objectID(string(p))
	if !ok {
		return nil, false
	}
	return oid, true
}

type FileRepository struct {
	coll *mongo.Collection
}

func NewFileRepository(db *mongo.Database) *FileRepository {
	return &FileRepository{coll: db.Collection(filesCollection)}
}

func (r *FileRepository) Create(ctx context.Context, f *domain.File) error {
	owner, ok := objectID(f.UserID)
	if !ok {
		return repository.ErrNotFound
	}
	parent, ok := parentValue(f.ParentID)
	if !ok {
		return repository.ErrNotFound
	}

	doc := fileDocument{
		Name:      f.Name,
		Type:      string(f.Type),
		ParentID:  parent,
		IsPublic:  f.IsPublic,
		UserID:    owner,
		LocalPath: f.LocalPath,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translate(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id %T", res.InsertedID)
	}
	f.ID = oid.Hex()
	f.ParentID = f.ParentID.Normalize()
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *FileRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*domain.File, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	owner, ok := objectID(userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "userId": owner})
}

func (r *FileRepository) findOne(ctx context.Context, filter bson.M) (*domain.File, error) {
	var doc fileDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

// ListByParent sorts on _id; ObjectIDs grow with insertion time.
func (r *FileRepository) ListByParent(ctx context.Context, parentID string, offset, limit int) ([]*domain.File, error) {
	parent, ok := parentValue(domain.ParentID(parentID))
	if !ok {
		return []*domain.File{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"parentId": parent}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domain.File, 0, limit)
	for cur.Next(ctx) {
		var doc fileDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *FileRepository) UpdateVisibility(ctx context.Context, id string, isPublic bool) error {
	oid, ok := objectID(id)
	if !ok {
		return repository.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"isPublic": isPublic}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *FileRepository) ListLocalPaths(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "localPath", bson.M{"localPath": bson.M{"$exists": true}})
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			paths = append(paths, s)
		}
	}
	return paths, nil
}
