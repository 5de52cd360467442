package mqttbus

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/toshiba-abbus/acprocessor/internal/appconfig"
	"github.com/toshiba-abbus/acprocessor/internal/logging"
)

// newTLSConfig builds a tls.Config for the broker connection from the
// configured credentials. A missing CACert does not fail setup; it logs a
// warning and connects without verifying the broker's certificate, per the
// configuration's documented behavior.
func newTLSConfig(creds appconfig.Credentials) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if creds.CertFile != "" && creds.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(creds.CertFile, creds.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("mqttbus: failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	if creds.CACert == "" {
		logging.Warn("no cacert configured, broker certificate will not be verified")
		cfg.InsecureSkipVerify = true
		return cfg, nil
	}

	pem, err := os.ReadFile(creds.CACert)
	if err != nil {
		return nil, fmt.Errorf("mqttbus: failed to read cacert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("mqttbus: cacert %s contains no usable certificates", creds.CACert)
	}
	cfg.RootCAs = pool

	logging.Info("TLS configuration created for broker connection",
		zap.String("cacert", creds.CACert),
	)
	return cfg, nil
}
