package clients_test

import (
	"testing"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestSignedSerializerRoundTrip(t *testing.T) {
	serializer, err := clients.NewSignedSerializer([]byte("0123456789abcdef"))
	require.NoError(t, err)

	client := &clients.Client{
		UserID:      utils.Ptr("user-1"),
		Name:        "Example App",
		RedirectURI: "https://app.example.com/callback",
		ClientID:    "abc123",
		Secret:      "s3cret",
		Type:        clients.ClientTypeConfidential,
	}

	encoded, err := serializer.Encode(client)
	require.NoError(t, err)

	restored, err := serializer.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, client.ClientID, restored.ClientID)
	require.Equal(t, client.RedirectURI, restored.RedirectURI)
	require.Equal(t, client.Type, restored.Type)
	require.Equal(t, client.UserID, restored.UserID)
}

func TestSignedSerializerEmptyInput(t *testing.T) {
	serializer, err := clients.NewSignedSerializer([]byte("0123456789abcdef"))
	require.NoError(t, err)

	restored, err := serializer.Decode("")
	require.NoError(t, err)
	require.Nil(t, restored)
}

func TestSignedSerializerRejectsTampering(t *testing.T) {
	serializer, err := clients.NewSignedSerializer([]byte("0123456789abcdef"))
	require.NoError(t, err)

	encoded, err := serializer.Encode(&clients.Client{ClientID: "abc123"})
	require.NoError(t, err)

	other, err := clients.NewSignedSerializer([]byte("another-signing-key"))
	require.NoError(t, err)

	_, err = other.Decode(encoded)
	require.Error(t, err)
}
