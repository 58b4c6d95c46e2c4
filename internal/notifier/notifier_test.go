package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "A new release is available (v1.2.3) !", FormatMessage("A new release is available", "v1.2.3"))
}
