package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("acct1q2w3e4r"))
	assert.NoError(t, ValidateAddress("0xDEADBEEF"))

	assert.Error(t, ValidateAddress(""))
	assert.Error(t, ValidateAddress("has space"))
	assert.Error(t, ValidateAddress("tab\there"))
	assert.Error(t, ValidateAddress("non-ascii-é"))
	assert.Error(t, ValidateAddress(strings.Repeat("a", 257)))
}
