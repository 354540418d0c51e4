package parsererror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cause := errors.New("bad decimal")
	err := &ParseError{Importer: "csv", Field: "amount", Value: "12,34", Err: cause}

	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "12,34")
	assert.True(t, errors.Is(err, cause))
}

func TestInvalidFormatError(t *testing.T) {
	err := &InvalidFormatError{
		FilePath:       "statement.ofx",
		ExpectedFormat: "OFX/QFX",
		Msg:            "no signon response",
	}
	assert.Contains(t, err.Error(), "statement.ofx")
	assert.Contains(t, err.Error(), "OFX/QFX")
}

func TestRowError(t *testing.T) {
	cause := errors.New("wrong field count")
	err := &RowError{Importer: "csv", Row: 3, Err: cause}

	assert.Contains(t, err.Error(), "row 3")
	assert.True(t, errors.Is(err, cause))
}
