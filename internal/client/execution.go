package client

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// sslFiles holds the paths of the pem files used for mutual tls, they
// must either all be set or all be empty
type sslFiles struct {
	caFile  string
	crtFile string
	keyFile string
}

func (s sslFiles) missing() []string {
	var missing []string

	for _, file := range []struct {
		env   string
		value string
	}{
		{"SSL_CA_FILE", s.caFile},
		{"SSL_CRT_FILE", s.crtFile},
		{"SSL_KEY_FILE", s.keyFile},
	} {
		if file.value == "" {
			missing = append(missing, file.env)
		}
	}
	return missing
}

func (s sslFiles) certificate() (tls.Certificate, error) {
	bytesCert, err := os.ReadFile(s.crtFile)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "unable to read certificate")
	}
	bytesKey, err := os.ReadFile(s.keyFile)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "unable to read key")
	}
	certificate, err := tls.X509KeyPair(bytesCert, bytesKey)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "unable to load key pair")
	}
	return certificate, nil
}

func (s sslFiles) caCertPool() (*x509.CertPool, error) {
	bytes, err := os.ReadFile(s.caFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read ca certificate")
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(bytes) {
		return nil, errors.Errorf("no certificates found in %s", s.caFile)
	}
	return caCertPool, nil
}

// transport returns a plain transport when no ssl files are configured
// and a mutual tls transport when all of them are
func (s sslFiles) transport() (*http.Transport, error) {
	switch missing := s.missing(); len(missing) {
	case 3:
		return &http.Transport{}, nil
	case 0:
	default:
		return nil, errors.Errorf("incomplete ssl configuration, missing: %s",
			strings.Join(missing, ", "))
	}
	caCertPool, err := s.caCertPool()
	if err != nil {
		return nil, err
	}
	certificate, err := s.certificate()
	if err != nil {
		return nil, err
	}
	return &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion:   tls.VersionTLS12,
			RootCAs:      caCertPool,
			Certificates: []tls.Certificate{certificate},
		},
	}, nil
}
