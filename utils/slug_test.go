package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "snell-library", GenerateSlug("Snell Library"))
	assert.Equal(t, "cafe-716", GenerateSlug("Café 716"))
	assert.Equal(t, "marino-center", GenerateSlug("  Marino   Center!  "))
	assert.Equal(t, "", GenerateSlug("!!!"))
}
