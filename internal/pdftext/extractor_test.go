package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsNonPDFInput(t *testing.T) {
	_, err := Extract(nil)
	assert.Error(t, err)

	_, err = Extract([]byte("plain text masquerading as a pdf"))
	assert.Error(t, err)
}

func TestExtractRejectsOversizedInput(t *testing.T) {
	data := make([]byte, maxInputBytes+1)
	_, err := Extract(data)
	assert.ErrorIs(t, err, ErrTooLarge)
}
