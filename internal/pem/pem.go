// Package pem tidies pasted PEM text before it reaches crypto/tls.
package pem

import (
	"crypto/tls"
	"fmt"
	"os"
	"strings"
)

// Clean trims every line of text and drops blank lines. ok is false when
// nothing is left.
func Clean(text string) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, "\n"), true
}

// LoadKeyPair reads a certificate and key from disk, cleaning both first
func LoadKeyPair(certFile, keyFile string) (tls.Certificate, error) {
	certPEM, err := readClean(certFile)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM, err := readClean(keyFile)
	if err != nil {
		return tls.Certificate{}, err
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to parse key pair: %w", err)
	}
	return cert, nil
}

func readClean(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cleaned, ok := Clean(string(data))
	if !ok {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return []byte(cleaned + "\n"), nil
}
