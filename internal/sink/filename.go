package sink

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultSuffix is used when OutputFilename gets an empty suffix.
const DefaultSuffix = "txt"

const randomNameLen = 10

// OutputFilename derives the output path from a requested name. An
// existing extension is replaced by suffix (a leading dot is optional).
// An empty name gets 10 random hex characters; a name that is only an
// extension becomes "res".
func OutputFilename(name, suffix string) string {
	suffix = strings.TrimPrefix(suffix, ".")
	if suffix == "" {
		suffix = DefaultSuffix
	}

	if name == "" {
		return randomName() + "." + suffix
	}

	dir, base := filepath.Split(name)

	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "res"
	}

	return dir + base + "." + suffix
}

func randomName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:randomNameLen]
}
