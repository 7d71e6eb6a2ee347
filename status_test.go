package lwp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	for _, tc := range [...]struct {
		name       string
		status     Status
		terminated bool
		code       int
		str        string
	}{
		{"live", Live, false, 0, "live"},
		{"zero", Terminated(0), true, 0, "terminated(0)"},
		{"small", Terminated(3), true, 3, "terminated(3)"},
		{"max", Terminated(255), true, 255, "terminated(255)"},
		{"truncated", Terminated(0x1234), true, 0x34, "terminated(52)"},
		{"negative", Terminated(-1), true, 255, "terminated(255)"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.terminated, tc.status.Terminated())
			assert.Equal(t, tc.code, tc.status.Code())
			assert.Equal(t, tc.str, tc.status.String())
		})
	}
}

func TestStatus_distinctFromLive(t *testing.T) {
	assert.NotEqual(t, Live, Terminated(0))
	assert.Equal(t, Terminated(256), Terminated(0))
}
