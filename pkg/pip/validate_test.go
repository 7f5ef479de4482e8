package pip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pyscope/pkg/errors"
)

func TestValidatePackageName(t *testing.T) {
	valid := []string{"requests", "Flask", "zope.interface", "typing_extensions", "ruamel.yaml-clib", "a"}
	for _, name := range valid {
		assert.NoError(t, ValidatePackageName(name), name)
	}

	invalid := []string{"", "-leading", "trailing-", "has space", "rm;ls", "$(whoami)", "a|b", strings.Repeat("a", 200)}
	for _, name := range invalid {
		err := ValidatePackageName(name)
		assert.ErrorIs(t, err, errors.ErrInvalidPackageName, name)
	}
}

func TestValidateSearchTerm(t *testing.T) {
	assert.NoError(t, ValidateSearchTerm("http client"))
	assert.ErrorIs(t, ValidateSearchTerm(""), errors.ErrInvalidSearchTerm)
	assert.ErrorIs(t, ValidateSearchTerm("a&b"), errors.ErrInvalidSearchTerm)
	assert.ErrorIs(t, ValidateSearchTerm(strings.Repeat("x", 200)), errors.ErrInvalidSearchTerm)
}

func TestSanitizeArgs(t *testing.T) {
	got, err := SanitizeArgs([]string{"install", "--no-cache-dir", "requests==2.31.0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"install", "--no-cache-dir", "requests==2.31.0"}, got)
}

func TestSanitizeArgs_StripsShellMetacharacters(t *testing.T) {
	// Metacharacters are removed before validation; what survives must still
	// be a valid package name.
	got, err := SanitizeArgs([]string{"install", "requests;"})
	require.NoError(t, err)
	assert.Equal(t, "requests", got[1])

	_, err = SanitizeArgs([]string{"install", "bad name"})
	require.Error(t, err)
}

func TestSanitizeArgs_RejectsOversizeArgument(t *testing.T) {
	_, err := SanitizeArgs([]string{strings.Repeat("a", 600)})
	assert.ErrorIs(t, err, errors.ErrArgumentTooLong)
}

func TestTruncateMessage(t *testing.T) {
	short := "pip failed"
	assert.Equal(t, short, TruncateMessage(short))

	long := strings.Repeat("e", 600)
	got := TruncateMessage(long)
	assert.LessOrEqual(t, len(got), maxMessageLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
