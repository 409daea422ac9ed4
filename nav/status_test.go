package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusSucceededAndFailed(t *testing.T) {
	assert.True(t, Succeeded(Success))
	assert.False(t, Failed(Success))

	assert.True(t, Failed(Failure|InvalidParameter))
	assert.False(t, Succeeded(Failure|InvalidParameter))
}

func TestStatusErrorMessagesByDetailBit(t *testing.T) {
	assert.Equal(t, "invalid parameter", (Failure | InvalidParameter).Error())
	assert.Equal(t, "unsupported operation", (Failure | Unsupported).Error())
	assert.Equal(t, "non-manifold navigation geometry", (Failure | NonManifold).Error())
	assert.Equal(t, "navigation mesh invariant violation", (Failure | InvariantViolation).Error())
	assert.Equal(t, "success", Success.Error())
	assert.Equal(t, "in progress", InProgress.Error())
}

func TestStatusImplementsErrorInterface(t *testing.T) {
	var err error = Failure | Unsupported
	assert.EqualError(t, err, "unsupported operation")
}
