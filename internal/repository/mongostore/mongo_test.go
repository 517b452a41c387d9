package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"filesmanager/internal/domain"
	"filesmanager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "files_manager", DatabaseFromURI("mongodb://localhost:27017/files_manager"))
	assert.Equal(t, "", DatabaseFromURI("mongodb://localhost:27017"))
	assert.Equal(t, "", DatabaseFromURI("not a uri"))
}

func TestFileDocument_RoundTrip(t *testing.T) {
	parent := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	for _, tc := range []struct {
		name   string
		stored interface{}
		want   domain.ParentID
	}{
		{"root int", int32(0), domain.RootID},
		{"root string", "0", domain.RootID},
		{"folder", parent, domain.ParentID(parent.Hex())},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(fileDocument{
				ID:       primitive.NewObjectID(),
				Name:     "a",
				Type:     "file",
				ParentID: tc.stored,
				UserID:   owner,
			})
			require.NoError(t, err)

			var doc fileDocument
			require.NoError(t, bson.Unmarshal(raw, &doc))
			f := doc.toDomain()
			assert.Equal(t, tc.want, f.ParentID)
			assert.Equal(t, owner.Hex(), f.UserID)
		})
	}
}

func TestParentValue(t *testing.T) {
	v, ok := parentValue("")
	assert.True(t, ok)
	assert.Equal(t, int32(0), v)

	oid := primitive.NewObjectID()
	v, ok = parentValue(domain.ParentID(oid.Hex()))
	assert.True(t, ok)
	assert.Equal(t, oid, v)

	_, ok = parentValue("42")
	assert.False(t, ok)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), repository.ErrNotFound)
	assert.ErrorIs(t, translate(mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}},
	}), repository.ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

// TestRepositories_Integration runs against a live server when MONGO_TEST_URI is set.
func TestRepositories_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := Connect(ctx, uri, "files_manager_test_"+primitive.NewObjectID().Hex())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = db.Client().Disconnect(context.Background())
	})
	require.NoError(t, EnsureIndexes(ctx, db))

	users := NewUserRepository(db)
	files := NewFileRepository(db)

	u := &domain.User{Email: "bob@dylan.com", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, u))
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Email: "bob@dylan.com"}), repository.ErrDuplicate)

	folder := &domain.File{UserID: u.ID, Name: "dir", Type: domain.TypeFolder}
	require.NoError(t, files.Create(ctx, folder))
	child := &domain.File{UserID: u.ID, Name: "a", Type: domain.TypeFile, ParentID: domain.ParentID(folder.ID), LocalPath: "/tmp/a"}
	require.NoError(t, files.Create(ctx, child))

	root, err := files.ListByParent(ctx, domain.RootID, 0, 20)
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, folder.ID, root[0].ID)

	kids, err := files.ListByParent(ctx, folder.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, "/tmp/a", kids[0].LocalPath)

	require.NoError(t, files.UpdateVisibility(ctx, child.ID, true))
	got, err := files.GetByIDAndOwner(ctx, child.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	paths, err := files.ListLocalPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/a"}, paths)
}
