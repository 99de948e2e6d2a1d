package textwidth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringASCII(t *testing.T) {
	assert.Equal(t, 5, String("hello"))
}

func TestStringFullwidth(t *testing.T) {
	// U+FF21 FULLWIDTH LATIN CAPITAL LETTER A counts as 2 cells.
	assert.Equal(t, 2, String("Ａ"))
}

func TestStringMixed(t *testing.T) {
	assert.Equal(t, 3+2*2, String("abcＡＢ"))
}
