package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

// tlsPolicy describes how the peer certificate of a secure transfer is checked.
type tlsPolicy struct {
	// configured is false for the plain Get/Post shapes, which leave TLS to
	// the engine defaults.
	configured bool
	caPath     string
}

// tlsConfig builds the client TLS configuration for p. A nil config means
// engine defaults (platform roots, full verification).
//
// With no CA path the peer and host checks are skipped unless strict is set.
// With a CA path verification is enabled against that bundle only.
func (p tlsPolicy) tlsConfig(strict bool) (*tls.Config, error) {
	if !p.configured {
		return nil, nil
	}

	caPath := strings.TrimSpace(p.caPath)
	if caPath == "" {
		if strict {
			return nil, nil
		}
		return &tls.Config{InsecureSkipVerify: true}, nil //nolint:gosec // verification needs a CA path
	}

	pool, err := loadCABundle(caPath)
	if err != nil {
		return nil, &Error{Code: CodeSSLCACertBadFile, Err: err}
	}
	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// loadCABundle reads a PEM bundle, falling back to a single DER certificate.
func loadCABundle(path string) (*x509.CertPool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ca bundle: %w", err)
	}

	pool := x509.NewCertPool()
	if block, _ := pem.Decode(raw); block != nil {
		if !pool.AppendCertsFromPEM(raw) {
			return nil, fmt.Errorf("ca bundle %s contains no usable PEM certificates", path)
		}
		return pool, nil
	}

	cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("ca bundle %s is neither PEM nor DER", path), err)
	}
	pool.AddCert(cert)
	return pool, nil
}
