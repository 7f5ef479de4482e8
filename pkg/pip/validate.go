package pip

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glorpus-work/pyscope/pkg/errors"
)

var (
	packageNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)
	unsafeNameChars    = regexp.MustCompile(`[{}[\]()*+?\\|^$]`)
	unsafeTermChars    = regexp.MustCompile(`[{}[\]()*+?\\|^$<>!@#%&=]`)
	shellMetaChars     = regexp.MustCompile("[;&|`$<>(){}\\[\\]*+?\\\\^]")
)

// ValidatePackageName rejects names that are not valid registry package names.
// This runs before any subprocess is spawned.
func ValidatePackageName(name string) error {
	if name == "" {
		return errors.Wrap(errors.ErrInvalidPackageName, "name is empty")
	}
	if len(name) > maxPackageNameLength {
		return errors.Wrapf(errors.ErrInvalidPackageName, "name exceeds %d characters", maxPackageNameLength)
	}
	if unsafeNameChars.MatchString(name) {
		return errors.Wrap(errors.ErrInvalidPackageName, "name contains unsafe characters")
	}
	if !packageNamePattern.MatchString(name) {
		return errors.Wrapf(errors.ErrInvalidPackageName, "malformed name %q", truncate(name, 50))
	}
	return nil
}

// ValidateSearchTerm rejects search input that could smuggle pattern or shell
// syntax into downstream calls.
func ValidateSearchTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return errors.Wrap(errors.ErrInvalidSearchTerm, "term is empty")
	}
	if len(term) > maxSearchTermLength {
		return errors.Wrapf(errors.ErrInvalidSearchTerm, "term exceeds %d characters", maxSearchTermLength)
	}
	if unsafeTermChars.MatchString(term) {
		return errors.Wrap(errors.ErrInvalidSearchTerm, "term contains unsafe characters")
	}
	return nil
}

// SanitizeArgs strips shell metacharacters from an argument vector and
// validates every package-like argument. It returns a new slice; the input is
// never modified.
func SanitizeArgs(args []string) ([]string, error) {
	sanitized := make([]string, 0, len(args))
	for i, arg := range args {
		if len(arg) > maxArgumentLength {
			return nil, errors.Wrapf(errors.ErrArgumentTooLong, "argument %d", i)
		}
		arg = shellMetaChars.ReplaceAllString(arg, "")
		if arg != "" && !strings.HasPrefix(arg, "-") {
			if err := ValidatePackageName(baseName(arg)); err != nil {
				return nil, fmt.Errorf("argument %q: %w", arg, err)
			}
		}
		sanitized = append(sanitized, arg)
	}
	return sanitized, nil
}

// baseName strips extras and version specifiers from a requirement string,
// e.g. "requests[socks]==2.31.0" -> "requests".
func baseName(requirement string) string {
	name := requirement
	for _, sep := range []string{"[", "==", ">=", "<=", "~=", ">", "<", "!="} {
		if idx := strings.Index(name, sep); idx >= 0 {
			name = name[:idx]
		}
	}
	return name
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// TruncateMessage bounds a user-visible failure message to a reasonable
// length.
func TruncateMessage(msg string) string {
	if len(msg) <= maxMessageLength {
		return msg
	}
	return strings.TrimRight(msg[:maxMessageLength], " \n\t") + "..."
}
