package subscriptions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipesync/internal/exceptions"
)

func TestStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), WAIT)
	defer cancel()

	t.Run("snapshots until cancelled", func(t *testing.T) {
		f := newFixture(t)
		f.create(t, "A")
		stream := f.multiplexer().Stream(ctx)

		snapshot, ok := stream.Next(ctx)
		require.True(t, ok)
		require.NoError(t, snapshot.Err)
		assert.Equal(t, []string{"A"}, titles(snapshot.Items))

		f.create(t, "B")
		for {
			snapshot, ok = stream.Next(ctx)
			require.True(t, ok)
			if len(snapshot.Items) == 2 {
				break
			}
		}
		assert.Equal(t, []string{"B", "A"}, titles(snapshot.Items))

		stream.Cancel()
		for range stream.C() {
		}
		_, ok = stream.Next(ctx)
		assert.False(t, ok)
	})

	t.Run("latest snapshot wins", func(t *testing.T) {
		f := newFixture(t)
		stream := f.multiplexer().Stream(ctx)
		defer stream.Cancel()
		snapshot, ok := stream.Next(ctx)
		require.True(t, ok)
		assert.Empty(t, snapshot.Items)

		for _, title := range []string{"A", "B", "C"} {
			f.create(t, title)
		}
		deadline := time.After(WAIT)
		for {
			select {
			case snapshot = <-stream.C():
				require.NoError(t, snapshot.Err)
				if len(snapshot.Items) == 3 {
					assert.Equal(t, []string{"C", "B", "A"}, titles(snapshot.Items))
					return
				}
			case <-deadline:
				t.Fatal("never observed all documents")
			}
		}
	})

	t.Run("failure ends the stream", func(t *testing.T) {
		f := newFixture(t)
		stream := f.multiplexer().Stream(ctx)
		defer stream.Cancel()
		_, ok := stream.Next(ctx)
		require.True(t, ok)

		f.documents.Close()
		snapshot, ok := stream.Next(ctx)
		require.True(t, ok)
		require.Error(t, snapshot.Err)
		assert.Equal(t, exceptions.KindUnknown, exceptions.Classify(snapshot.Err))
		_, ok = stream.Next(ctx)
		assert.False(t, ok)
	})
}
