package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/emotion-log/internal/config"
)

func writeSelfSignedPair(t *testing.T, certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"emotion-log test"}},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600))
}

func TestNewSecurityLayer(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &PlainListener{}, NewSecurityLayer(config.HTTP{}))

	layer := NewSecurityLayer(config.HTTP{EnableHTTPS: true, CertFileName: "c.pem", PrivateKeyFileName: "k.pem"})
	require.IsType(t, &TLSListener{}, layer)
	assert.Equal(t, "c.pem", layer.(*TLSListener).certFileName)
}

func TestTLSListener_Listen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	writeSelfSignedPair(t, certFile, keyFile)

	tests := []struct {
		name    string
		cert    string
		key     string
		addr    string
		wantErr string
	}{
		{name: "valid pair", cert: certFile, key: keyFile, addr: "127.0.0.1:0"},
		{name: "missing files", cert: filepath.Join(dir, "none.pem"), key: keyFile, addr: "127.0.0.1:0", wantErr: "failed to load TLS certificate"},
		{name: "bad address", cert: certFile, key: keyFile, addr: "invalid-address", wantErr: "failed to listen"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ln, err := NewTLSListener(tt.cert, tt.key).Listen("tcp", tt.addr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer ln.Close()
			assert.NotEmpty(t, ln.Addr().String())
		})
	}
}

func TestPlainListener_Listen(t *testing.T) {
	t.Parallel()

	ln, err := NewPlainListener().Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, ok := ln.(*net.TCPListener)
	assert.True(t, ok)

	_, err = NewPlainListener().Listen("tcp", "invalid-address")
	assert.Error(t, err)
}
