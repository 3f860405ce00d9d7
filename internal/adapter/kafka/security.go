package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/IBM/sarama"
	"github.com/lovoo/goka"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

// Security holds optional broker TLS files and SASL/PLAIN credentials.
// The zero value means plaintext without authentication.
type Security struct {
	CAFile   string
	CertFile string
	KeyFile  string
	User     string
	Pass     string
}

func (s Security) tlsEnabled() bool {
	return s.CAFile != ""
}

func (s Security) saslEnabled() bool {
	return s.User != ""
}

// MakeTLSConfig returns [*tls.Config] built from PEM files. The client
// certificate is optional.
func MakeTLSConfig(ca, cert, key string) (*tls.Config, error) {
	const op = "kafka.MakeTLSConfig"

	caCert, err := os.ReadFile(ca)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read CA certificate file: %w", op, err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%s: %w", op, errors.New("failed to parse CA certificate"))
	}

	cfg := &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}

	if cert != "" {
		clientCert, err := tls.LoadX509KeyPair(cert, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.Certificates = []tls.Certificate{clientCert}
	}
	return cfg, nil
}

// ClientOpts returns franz-go options applying s.
func (s Security) ClientOpts() ([]kgo.Opt, error) {
	var opts []kgo.Opt
	if s.tlsEnabled() {
		cfg, err := MakeTLSConfig(s.CAFile, s.CertFile, s.KeyFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.DialTLSConfig(cfg))
	}
	if s.saslEnabled() {
		opts = append(opts, kgo.SASL(plain.Auth{User: s.User, Pass: s.Pass}.AsMechanism()))
	}
	return opts, nil
}

// saramaConfig returns the goka default config with s applied.
func (s Security) saramaConfig() (*sarama.Config, error) {
	cfg := goka.DefaultConfig()
	if s.tlsEnabled() {
		tlsCfg, err := MakeTLSConfig(s.CAFile, s.CertFile, s.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Net.TLS.Enable = true
		cfg.Net.TLS.Config = tlsCfg
	}
	if s.saslEnabled() {
		cfg.Net.SASL.Enable = true
		cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		cfg.Net.SASL.User = s.User
		cfg.Net.SASL.Password = s.Pass
	}
	return cfg, nil
}
