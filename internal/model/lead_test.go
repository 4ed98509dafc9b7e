package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLeadStatus_Valid(t *testing.T) {
	for _, st := range AllLeadStatuses() {
		parsed, err := ParseLeadStatus(string(st))
		assert.NoError(t, err)
		assert.Equal(t, st, parsed)
	}
}

func TestParseLeadStatus_Unknown(t *testing.T) {
	for _, raw := range []string{"", "new", "ARCHIVED", "KEEP_CURRENT", "WON "} {
		_, err := ParseLeadStatus(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestAllLeadStatuses_Closed(t *testing.T) {
	assert.Len(t, AllLeadStatuses(), 6)
}
