package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipesync/internal/store"
)

func TestHub(t *testing.T) {
	t.Run("Publish", func(t *testing.T) {
		hub := store.NewHub()
		recipes := hub.Subscribe("recipes")
		lists := hub.Subscribe("shoppingLists")
		defer recipes.Close()
		defer lists.Close()

		hub.Publish(store.Change{Collection: "recipes", Id: "a", Action: store.ActionInsert})

		select {
		case change := <-recipes.Changes():
			assert.Equal(t, "a", change.Id)
		default:
			t.Fatal("expected a change for recipes")
		}
		select {
		case change := <-lists.Changes():
			t.Fatalf("unexpected change for lists: %v", change)
		default:
		}
	})

	t.Run("full buffers drop instead of blocking", func(t *testing.T) {
		hub := store.NewHub()
		feed := hub.Subscribe("recipes")
		defer feed.Close()
		for i := 0; i < store.FEED_BUFFER*2; i++ {
			hub.Publish(store.Change{Collection: "recipes", Id: "a", Action: store.ActionModify})
		}
		assert.Len(t, feed.Changes(), store.FEED_BUFFER)
	})

	t.Run("Close releases listener", func(t *testing.T) {
		idle := 0
		hub := store.NewHub()
		hub.OnIdle = func() { idle++ }
		first := hub.Subscribe("recipes")
		second := hub.Subscribe("recipes")
		require.Equal(t, 2, hub.Count())

		first.Close()
		first.Close()
		assert.Equal(t, 1, hub.Count())
		assert.Equal(t, 0, idle)
		_, open := <-first.Changes()
		assert.False(t, open)
		assert.NoError(t, first.Err())

		second.Close()
		assert.Equal(t, 0, hub.Count())
		assert.Equal(t, 1, idle)
	})

	t.Run("Fail ends every feed", func(t *testing.T) {
		hub := store.NewHub()
		feed := hub.Subscribe("shoppingLists")
		cause := errors.New("AccessDeniedException")
		hub.Fail(cause)
		_, open := <-feed.Changes()
		assert.False(t, open)
		assert.Same(t, cause, feed.Err())
		assert.Equal(t, 0, hub.Count())
	})

	t.Run("Subscribe after Close", func(t *testing.T) {
		hub := store.NewHub()
		hub.Close()
		feed := hub.Subscribe("recipes")
		_, open := <-feed.Changes()
		assert.False(t, open)
		assert.Error(t, feed.Err())
	})
}
