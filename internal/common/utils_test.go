package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound1(t *testing.T) {
	assert.Equal(t, 12.8, Round1(12.75))
	assert.Equal(t, 0.0, Round1(0))
	assert.Equal(t, -1.3, Round1(-1.25))
}

func TestFormatMM(t *testing.T) {
	assert.Equal(t, "35.5", FormatMM(35.5))
	assert.Equal(t, "0.0", FormatMM(0))
	assert.Equal(t, "25.5", FormatMM(25.4999999))
}
