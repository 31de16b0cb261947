package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := MalformedSpec("bmat8.yml", "root must contain exactly one type key")
	assert.Equal(t, "spec (fatal): malformed spec document", err.Error())
	assert.Equal(t, "bmat8.yml", err.Context["file"])
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := ArtifactWriteError("out/a.rst", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, CategoryFileSystem, err.Category)
}

func TestIsCategory(t *testing.T) {
	err := SymbolDBMissing("libsemigroups::BMat8")
	assert.True(t, IsCategory(err, CategorySymbolDB))
	assert.False(t, IsCategory(err, CategorySpec))
	assert.False(t, IsCategory(stderrors.New("plain"), CategorySymbolDB))
	assert.Equal(t, SeverityWarning, err.Severity)
}
