package gosseract_test

import (
	"strings"
	"testing"

	"github.com/331515Stud/tg-bot-for-gf/gosseract"
	"github.com/stretchr/testify/assert"
)

func TestEngine_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tesseract", gosseract.NewEngine().Name())
}

func TestWhitelist(t *testing.T) {
	t.Parallel()

	t.Run("contains the accented Cyrillic vowels", func(t *testing.T) {
		t.Parallel()

		assert.True(t, strings.ContainsRune(gosseract.Whitelist, 'ё'))
		assert.True(t, strings.ContainsRune(gosseract.Whitelist, 'Ё'))
	})

	t.Run("contains the punctuation set", func(t *testing.T) {
		t.Parallel()

		for _, r := range ".,-/ " {
			assert.True(t, strings.ContainsRune(gosseract.Whitelist, r), "missing %q", r)
		}
	})

	t.Run("excludes characters outside the set", func(t *testing.T) {
		t.Parallel()

		for _, r := range "!?;:()@#$%" {
			assert.False(t, strings.ContainsRune(gosseract.Whitelist, r), "unexpected %q", r)
		}
	})
}
