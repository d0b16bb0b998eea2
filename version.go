package weave

import "fmt"

const (
	// Maj is the major version number (updated on breaking release)
	Maj = 0
	// Min is the minor version number (updated on minor releases)
	Min = 1
	// Fix is the patch number (updated on bugfix releases)
	Fix = 0
)

// Suffix used when not a tagged release (eg. -dev, -alpha, -beta, etc)
const Suffix = "-dev"

// GitCommit set by build flags
var GitCommit = ""

// Version returns the release of the mint registry, followed by the
// commit it was built from when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
