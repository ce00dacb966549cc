package httpx

import "golang.org/x/crypto/acme/autocert"

// certCacheDir keeps issued certificates between restarts.
const certCacheDir = ".cache/signalhop/certs"

type TLS struct {
	CertManager *autocert.Manager
}

// NewTLSConfig makes a Let's Encrypt certificate manager,
// restricted to the given host when it is not empty.
func NewTLSConfig(host string) *TLS {
	m := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
		Cache:  autocert.DirCache(certCacheDir),
	}
	if host != "" {
		m.HostPolicy = autocert.HostWhitelist(host)
	}
	return &TLS{CertManager: m}
}
