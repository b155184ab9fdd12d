package client_test

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/antonio-alexander/go-employee-stats/internal/client"
	"github.com/antonio-alexander/go-employee-stats/internal/logic"
	"github.com/antonio-alexander/go-employee-stats/internal/service"
	"github.com/antonio-alexander/go-employee-stats/internal/sql"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/stretchr/testify/assert"
)

// writePem writes the certificate and key of the tls server so they can
// be used as the client's ca, certificate and key
func writePem(t *testing.T, server *httptest.Server) (caFile, crtFile, keyFile string) {
	dir := t.TempDir()
	certificate := server.TLS.Certificates[0]
	bytesKey, err := x509.MarshalPKCS8PrivateKey(certificate.PrivateKey)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to marshal key")
	}
	crtFile, keyFile = filepath.Join(dir, "client.crt"), filepath.Join(dir, "client.key")
	err = os.WriteFile(crtFile, pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certificate.Certificate[0],
	}), 0600)
	assert.Nil(t, err)
	err = os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: bytesKey,
	}), 0600)
	assert.Nil(t, err)
	return crtFile, crtFile, keyFile
}

func TestClientSsl(t *testing.T) {
	ctx := context.TODO()

	store := sql.NewMemory()
	logic := logic.NewLogic(store, utilities.NewCounter())
	service := service.NewService(logic)
	err := service.Configure(map[string]string{})
	assert.Nil(t, err)
	err = store.Open(ctx)
	assert.Nil(t, err)
	err = logic.Open(ctx)
	assert.Nil(t, err)
	server := httptest.NewTLSServer(service)
	defer server.Close()
	serverUrl, err := url.Parse(server.URL)
	assert.Nil(t, err)
	caFile, crtFile, keyFile := writePem(t, server)
	garbageFile := filepath.Join(t.TempDir(), "garbage.crt")
	err = os.WriteFile(garbageFile, []byte("not a certificate"), 0600)
	assert.Nil(t, err)

	cases := map[string]struct {
		caFile, crtFile, keyFile string
		errContains              string
	}{
		"missing_key": {
			caFile:      caFile,
			crtFile:     crtFile,
			errContains: "SSL_KEY_FILE",
		},
		"missing_ca_and_crt": {
			keyFile:     keyFile,
			errContains: "SSL_CA_FILE, SSL_CRT_FILE",
		},
		"invalid_ca": {
			caFile:      garbageFile,
			crtFile:     crtFile,
			keyFile:     keyFile,
			errContains: "no certificates found",
		},
		"unreadable_key": {
			caFile:      caFile,
			crtFile:     crtFile,
			keyFile:     filepath.Join(t.TempDir(), "missing.key"),
			errContains: "unable to read key",
		},
		"valid": {
			caFile:  caFile,
			crtFile: crtFile,
			keyFile: keyFile,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			client := client.NewClient(utilities.NewLogger())
			err := client.Configure(map[string]string{
				"CLIENT_PROTOCOL": "https",
				"CLIENT_ADDRESS":  serverUrl.Hostname(),
				"CLIENT_PORT":     serverUrl.Port(),
				"SSL_CA_FILE":     c.caFile,
				"SSL_CRT_FILE":    c.crtFile,
				"SSL_KEY_FILE":    c.keyFile,
			})
			assert.Nil(t, err)
			err = client.Open(ctx)
			if c.errContains != "" {
				if assert.NotNil(t, err) {
					assert.Contains(t, err.Error(), c.errContains)
				}
				return
			}
			if !assert.Nil(t, err) {
				return
			}
			defer func() {
				_ = client.Close(ctx)
			}()
			statistics, err := client.StatisticsRead(ctx)
			assert.Nil(t, err)
			if assert.NotNil(t, statistics) {
				assert.Zero(t, statistics.ActiveEmployees)
			}
		})
	}
}
