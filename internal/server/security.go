// Package server provides the listeners the API server accepts connections on.
package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/emotion-log/internal/config"
	"github.com/dtroode/emotion-log/internal/model"
)

// NewSecurityLayer returns a TLS listener when HTTPS is enabled in cfg and a plain one otherwise.
func NewSecurityLayer(cfg config.HTTP) model.SecurityLayer {
	if cfg.EnableHTTPS {
		return NewTLSListener(cfg.CertFileName, cfg.PrivateKeyFileName)
	}
	return NewPlainListener()
}

// TLSListener serves HTTPS with a certificate loaded from disk on every Listen.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a new TLSListener instance.
//
// Parameters:
//   - certFileName: Path to the PEM certificate chain
//   - privateKeyFileName: Path to the PEM private key
//
// Returns a pointer to the newly created TLSListener instance.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and listens on addr. Clients below TLS 1.2 are refused.
func (l *TLSListener) Listen(network, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2", "http/1.1"},
	}
	ln, err := tls.Listen(network, addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// PlainListener serves unencrypted HTTP. Use it for local development or behind a TLS proxy.
type PlainListener struct{}

// NewPlainListener creates a new PlainListener instance.
func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen listens on addr without TLS.
func (l *PlainListener) Listen(network, addr string) (net.Listener, error) {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}
