package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "liam@mergington.edu", Normalize("  Liam@Mergington.EDU "))
	assert.Equal(t, "", Normalize("   "))
}

func TestLocal(t *testing.T) {
	assert.Equal(t, "liam", Local("liam@mergington.edu"))
	assert.Equal(t, "no-at-sign", Local("no-at-sign"))
}
