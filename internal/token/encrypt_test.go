package token_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipesync/internal/store"
	"philcali.me/recipesync/internal/token"
)

func TestEncryptionMarshaler(t *testing.T) {
	marshaler := token.NewGCM("secret")
	scope := "recipes"
	lastKey := store.Item{
		"PK":    &types.AttributeValueMemberS{Value: "recipes"},
		"SK":    &types.AttributeValueMemberS{Value: "0190a1b2-0000-7000-8000-000000000000"},
		"count": &types.AttributeValueMemberN{Value: "12"},
		"raw":   &types.AttributeValueMemberB{Value: []byte{0xff, 0x00}},
	}

	t.Run("thing==Unmarshal(Marshal(thing))", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, lastKey)
		require.NoError(t, err)
		otherKey, err := marshaler.Unmarshal(scope, encoded)
		require.NoError(t, err)
		assert.Equal(t, lastKey, otherKey)
	})

	t.Run("len(token)==nil", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, nil)
		require.NoError(t, err)
		assert.Nil(t, encoded)

		otherKey, err := marshaler.Unmarshal(scope, nil)
		require.NoError(t, err)
		assert.Nil(t, otherKey)
	})

	t.Run("scopeA!=scopeB", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, lastKey)
		require.NoError(t, err)
		otherKey, err := marshaler.Unmarshal("shoppingLists", encoded)
		assert.Error(t, err)
		assert.Nil(t, otherKey)
	})

	t.Run("secretA!=secretB", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, lastKey)
		require.NoError(t, err)
		_, err = token.NewGCM("other").Unmarshal(scope, encoded)
		assert.Error(t, err)
	})

	t.Run("garbage==ErrMalformedToken", func(t *testing.T) {
		_, err := marshaler.Unmarshal(scope, []byte("not a token!"))
		assert.ErrorIs(t, err, token.ErrMalformedToken)
	})
}
