package ocrbot_test

import (
	"testing"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraction_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid extraction", func(t *testing.T) {
		t.Parallel()

		e := &ocrbot.Extraction{UserID: 1, Text: "hello", Source: ocrbot.SourceImage}
		assert.NoError(t, e.Validate())
	})

	t.Run("empty text is valid", func(t *testing.T) {
		t.Parallel()

		// A successful recognition of an image with no text still yields
		// an extraction.
		e := &ocrbot.Extraction{UserID: 1, Source: ocrbot.SourcePDF}
		assert.NoError(t, e.Validate())
	})

	t.Run("missing user ID", func(t *testing.T) {
		t.Parallel()

		e := &ocrbot.Extraction{Text: "hello", Source: ocrbot.SourceXML}
		err := e.Validate()
		require.Error(t, err)
		assert.Equal(t, ocrbot.EINVALID, ocrbot.ErrorCode(err))
	})

	t.Run("unknown source kind", func(t *testing.T) {
		t.Parallel()

		e := &ocrbot.Extraction{UserID: 1, Source: "spreadsheet"}
		err := e.Validate()
		require.Error(t, err)
		assert.Equal(t, ocrbot.EINVALID, ocrbot.ErrorCode(err))
	})
}
