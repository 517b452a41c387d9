package blob

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweep(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	kept, err := s.Put(ctx, []byte("kept"))
	require.NoError(t, err)
	orphan, err := s.Put(ctx, []byte("orphan"))
	require.NoError(t, err)
	fresh, err := s.Put(ctx, []byte("fresh"))
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	for _, p := range []string{kept, orphan} {
		require.NoError(t, os.Chtimes(p, old, old))
	}

	t.Run("dry run", func(t *testing.T) {
		res, err := Sweep(ctx, s, []string{kept}, SweepOptions{Grace: time.Hour, DryRun: true}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 3, res.Scanned)
		assert.Equal(t, []string{orphan}, res.Removed)
		assert.FileExists(t, orphan)
	})

	t.Run("removes old orphans only", func(t *testing.T) {
		res, err := Sweep(ctx, s, []string{kept}, SweepOptions{Grace: time.Hour}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Referenced)
		assert.Equal(t, 1, res.TooYoung)
		assert.Equal(t, []string{orphan}, res.Removed)

		assert.NoFileExists(t, orphan)
		assert.FileExists(t, kept)
		assert.FileExists(t, fresh)
	})

	t.Run("negative grace", func(t *testing.T) {
		_, err := Sweep(ctx, s, nil, SweepOptions{Grace: -time.Second}, zap.NewNop())
		assert.Error(t, err)
	})
}
