package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "shop1", NormalizeHandle("@shop1"))
	assert.Equal(t, "shop1", NormalizeHandle("shop1"))
	assert.Equal(t, "shop1", NormalizeHandle("  @shop1  "))
}

func TestValidateHandle(t *testing.T) {
	assert.NoError(t, ValidateHandle("@shop1"))
	assert.NoError(t, ValidateHandle("buyer_one"))
	assert.NoError(t, ValidateHandle("a1234"))

	assert.Error(t, ValidateHandle(""))
	assert.Error(t, ValidateHandle("@"))
	assert.Error(t, ValidateHandle("ab"))
	assert.Error(t, ValidateHandle("has space"))
	assert.Error(t, ValidateHandle("dash-name"))
}
