package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deals-api/internal/config"
	"github.com/deals-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestProvider generates a throwaway RSA key pair, writes it as PEM files
// and builds a Provider from them, exercising the real file-loading path.
func newTestProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0644))

	p, err := NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         expiry,
	})
	require.NoError(t, err)
	return p
}

func TestSignAndVerify(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	token, err := p.Sign("u1", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerify_ExpiredToken(t *testing.T) {
	p := newTestProvider(t, -time.Minute)

	token, err := p.Sign("u1", domain.RoleUser)
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Error(t, err)
}

func TestVerify_WrongKey(t *testing.T) {
	signer := newTestProvider(t, time.Hour)
	verifier := newTestProvider(t, time.Hour)

	token, err := signer.Sign("u1", domain.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	_, err := p.Verify("not.a.jwt")
	assert.Error(t, err)
}

func TestNewProvider_MissingKeyFile(t *testing.T) {
	_, err := NewProvider(&config.Config{
		JWTPrivateKeyPath: "/nonexistent/private.pem",
		JWTPublicKeyPath:  "/nonexistent/public.pem",
	})
	assert.Error(t, err)
}
