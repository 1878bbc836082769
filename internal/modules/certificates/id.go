package certificates

import (
	"strings"

	"github.com/google/uuid"
)

const idPrefix = "CERT-"

// NewCertificateID returns "CERT-" plus 12 upper-case hex characters of a random UUID.
func NewCertificateID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return idPrefix + strings.ToUpper(raw[:12])
}
