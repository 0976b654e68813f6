package clients

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// SignedSerializer wraps Serialize/Deserialize in an HS256-signed JWT so a
// client identity can be handed across processes or stored in a cookie
// without trusting the transport.
type SignedSerializer struct {
	key     []byte
	nowFunc func() time.Time
}

// NewSignedSerializer creates a serializer signing with the given key.
func NewSignedSerializer(key []byte) (*SignedSerializer, error) {
	if len(key) == 0 {
		return nil, errors.New("[NewSignedSerializer] signing key is required")
	}
	return &SignedSerializer{key: key, nowFunc: time.Now}, nil
}

// Encode signs the client's serialized representation.
func (s *SignedSerializer) Encode(client *Client) (string, error) {
	data := client.Serialize()
	if data == nil {
		return "", errors.New("[SignedSerializer.Encode] nil client")
	}

	claims := jwt.MapClaims{
		"client": data,
		"iat":    s.nowFunc().Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "[SignedSerializer.Encode] sign")
	}
	return signed, nil
}

// Decode verifies the signature and reconstructs the client. Empty input
// returns nil without error.
func (s *SignedSerializer) Decode(raw string) (*Client, error) {
	if raw == "" {
		return nil, nil
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.key, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "[SignedSerializer.Decode] parse")
	}
	if !token.Valid {
		return nil, errors.New("[SignedSerializer.Decode] invalid signature")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("[SignedSerializer.Decode] unexpected claims type")
	}

	data, _ := claims["client"].(map[string]any)
	return Deserialize(data), nil
}
