package flag

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Registration happens at init; parsing is deferred to main so that test
// binaries can register their own flags first.
func TestFlagsRegisteredButNotParsedAtInit(t *testing.T) {
	assert.NotNil(t, flag.Lookup("service"))
	assert.NotNil(t, flag.Lookup("dev"))

	// Defaults are in effect when nothing overrides them.
	assert.Equal(t, APIServer, ServiceName)
	assert.True(t, IsDevelopment)
}
