package rcconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesSpecScenarios(t *testing.T) {
	c := Default()
	assert.Equal(t, 8, c.PtrSize)
	assert.False(t, c.TreatBareRecursivePointerAsImplemented)
	assert.False(t, c.EmitDebugComments)
}
