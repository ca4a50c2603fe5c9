package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_KeepsText(t *testing.T) {
	for _, o := range []string{"parsed", "fallback", "failed"} {
		assert.Contains(t, Outcome(o), o)
	}
}
