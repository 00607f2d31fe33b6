// Package semtrim decides whether SELinux policy modules are useful on the
// running system: a module is useful when at least one filesystem path
// matched by its file-context patterns exists. Callers use the answer to
// avoid loading modules that label nothing present.
package semtrim

import (
	"github.com/hollis/semtrim/internal/fcontext"
	"github.com/hollis/semtrim/internal/semodule"
)

// UsefulFromFCText reports whether any path labeled by the given
// file-context text exists on this system. A malformed pattern aborts the
// scan with an error naming the pattern.
func UsefulFromFCText(text string) (bool, error) {
	return fcontext.Useful(text)
}

// UsefulFromPackage reads a compiled module package (optionally bzip2 or
// gzip compressed) and reports whether any path labeled by its embedded
// file contexts exists on this system.
func UsefulFromPackage(path string) (bool, error) {
	fc, err := semodule.ReadFileContexts(path)
	if err != nil {
		return false, err
	}
	return fcontext.Useful(fc)
}
