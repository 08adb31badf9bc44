package booking

import (
	"strings"

	"github.com/google/uuid"
)

const referencePrefix = "DT-"

// newReference returns a customer-facing booking reference such as DT-3F9A1C0B.
func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return referencePrefix + id[:8]
}
