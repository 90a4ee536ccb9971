// Пакет security — параметры SASL/TLS, общие для драйверов брокера.
package security

import (
	"crypto/tls"
	"fmt"
	"strings"
)

// Протоколы безопасности (как в librdkafka security.protocol).
const (
	ProtocolPlaintext     = "PLAINTEXT"
	ProtocolSSL           = "SSL"
	ProtocolSASLPlaintext = "SASL_PLAINTEXT"
	ProtocolSASLSSL       = "SASL_SSL"
)

// SASL-механизмы.
const (
	MechanismPlain       = "PLAIN"
	MechanismSCRAMSHA256 = "SCRAM-SHA-256"
	MechanismSCRAMSHA512 = "SCRAM-SHA-512"
	MechanismAWSMSKIAM   = "AWS_MSK_IAM"
)

// Settings — настройки безопасности соединения с брокером.
type Settings struct {
	Protocol              string
	SASLMechanism         string
	SASLUsername          string
	SASLPassword          string
	AWSRegion             string
	TLSInsecureSkipVerify bool
}

// Normalize — пустой протокол означает PLAINTEXT; регистр не важен.
func (s Settings) Normalize() Settings {
	s.Protocol = strings.ToUpper(strings.TrimSpace(s.Protocol))
	if s.Protocol == "" {
		s.Protocol = ProtocolPlaintext
	}
	s.SASLMechanism = strings.ToUpper(strings.TrimSpace(s.SASLMechanism))
	return s
}

// Validate — проверка согласованности протокола и механизма.
func (s Settings) Validate() error {
	s = s.Normalize()
	switch s.Protocol {
	case ProtocolPlaintext, ProtocolSSL:
		return nil
	case ProtocolSASLPlaintext, ProtocolSASLSSL:
	default:
		return fmt.Errorf("unsupported security protocol: %s", s.Protocol)
	}

	switch s.SASLMechanism {
	case MechanismPlain, MechanismSCRAMSHA256, MechanismSCRAMSHA512:
		if s.SASLUsername == "" {
			return fmt.Errorf("sasl mechanism %s requires username", s.SASLMechanism)
		}
	case MechanismAWSMSKIAM:
		if s.AWSRegion == "" {
			return fmt.Errorf("sasl mechanism %s requires aws region", s.SASLMechanism)
		}
	default:
		return fmt.Errorf("unsupported SASL mechanism: %s", s.SASLMechanism)
	}
	return nil
}

// SASLEnabled — нужна ли SASL-аутентификация.
func (s Settings) SASLEnabled() bool {
	p := s.Normalize().Protocol
	return p == ProtocolSASLPlaintext || p == ProtocolSASLSSL
}

// TLSConfig — конфигурация TLS или nil, если протокол без шифрования.
func (s Settings) TLSConfig() *tls.Config {
	p := s.Normalize().Protocol
	if p != ProtocolSSL && p != ProtocolSASLSSL {
		return nil
	}
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: s.TLSInsecureSkipVerify,
	}
}
