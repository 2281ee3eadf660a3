package request

import (
	"fmt"
	"strings"
)

// MaxSecIDsPerRequest caps how many securities one bonds lookup may name.
const MaxSecIDsPerRequest = 100

// ParseSecIDs splits a comma-separated secid query parameter, trimming
// whitespace, dropping empty entries and upper-casing identifiers.
//
// Returns an error when no identifier remains or more than
// MaxSecIDsPerRequest are given. Format checks are left to validation.ValidateSecID.
func ParseSecIDs(param string) ([]string, error) {
	var secIDs []string
	for _, part := range strings.Split(param, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			secIDs = append(secIDs, part)
		}
	}

	if len(secIDs) == 0 {
		return nil, fmt.Errorf("secid is required")
	}
	if len(secIDs) > MaxSecIDsPerRequest {
		return nil, fmt.Errorf("at most %d securities per request, got %d", MaxSecIDsPerRequest, len(secIDs))
	}

	return secIDs, nil
}
