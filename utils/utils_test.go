package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomAlphabetString(t *testing.T) {
	assert.Len(t, RandomAlphabetString(8), 8)
	assert.Equal(t, "", RandomAlphabetString(0))
}
