package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/store"
)

const NONCE_SIZE = 12

var ErrMalformedToken = errors.New("malformed continuation token")

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

type EncryptionTokenMarshaler struct {
	Mode   EncryptMode
	Secret string
}

type envelope struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

func NewGCM(secret string) *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode:   cipher.NewGCM,
		Secret: secret,
	}
}

func _keyToToken(lastKey store.Item) ([]byte, error) {
	if len(lastKey) == 0 {
		return nil, nil
	}
	token := make(data.NextToken, len(lastKey))
	for field, value := range lastKey {
		switch av := value.(type) {
		case *types.AttributeValueMemberS:
			token[field] = map[string]string{"S": av.Value}
		case *types.AttributeValueMemberN:
			token[field] = map[string]string{"N": av.Value}
		case *types.AttributeValueMemberB:
			token[field] = map[string]string{"B": base64.StdEncoding.EncodeToString(av.Value)}
		}
	}
	return json.Marshal(token)
}

func _tokenToKey(plaintext []byte) (store.Item, error) {
	var nextToken data.NextToken
	if err := json.Unmarshal(plaintext, &nextToken); err != nil {
		return nil, err
	}
	lastKey := make(store.Item, len(nextToken))
	for field, inner := range nextToken {
		if sv, ok := inner["S"]; ok {
			lastKey[field] = &types.AttributeValueMemberS{Value: sv}
		}
		if nv, ok := inner["N"]; ok {
			lastKey[field] = &types.AttributeValueMemberN{Value: nv}
		}
		if bv, ok := inner["B"]; ok {
			b, err := base64.StdEncoding.DecodeString(bv)
			if err != nil {
				return nil, err
			}
			lastKey[field] = &types.AttributeValueMemberB{Value: b}
		}
	}
	return lastKey, nil
}

func (em *EncryptionTokenMarshaler) _aead(scope string) (cipher.AEAD, error) {
	hash := sha256.New()
	hash.Write([]byte(em.Secret))
	hash.Write([]byte{0})
	hash.Write([]byte(scope))
	block, err := aes.NewCipher(hash.Sum(nil))
	if err != nil {
		return nil, err
	}
	return em.Mode(block)
}

func (em *EncryptionTokenMarshaler) Marshal(scope string, lastKey store.Item) ([]byte, error) {
	serialized, err := _keyToToken(lastKey)
	if err != nil || serialized == nil {
		return nil, err
	}
	aead, err := em._aead(scope)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NONCE_SIZE)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(envelope{
		Ciphertext: hex.EncodeToString(aead.Seal(nil, nonce, serialized, nil)),
		Nonce:      hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, err
	}
	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(payload)))
	base64.URLEncoding.Encode(encoded, payload)
	return encoded, nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(scope string, token []byte) (store.Item, error) {
	if len(token) == 0 {
		return nil, nil
	}
	decoded := make([]byte, base64.URLEncoding.DecodedLen(len(token)))
	n, err := base64.URLEncoding.Decode(decoded, token)
	if err != nil {
		return nil, ErrMalformedToken
	}
	var payload envelope
	if err := json.Unmarshal(decoded[:n], &payload); err != nil {
		return nil, ErrMalformedToken
	}
	ciphertext, err := hex.DecodeString(payload.Ciphertext)
	if err != nil {
		return nil, ErrMalformedToken
	}
	nonce, err := hex.DecodeString(payload.Nonce)
	if err != nil || len(nonce) != NONCE_SIZE {
		return nil, ErrMalformedToken
	}
	aead, err := em._aead(scope)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return _tokenToKey(plaintext)
}
