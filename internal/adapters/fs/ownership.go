package fs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mtp-labs/bootship/internal/domain"
)

// OwnershipFixer implements ports.OwnershipFixer with a recursive chown.
type OwnershipFixer struct{}

// NewOwnershipFixer creates a new ownership fixer.
func NewOwnershipFixer() *OwnershipFixer {
	return &OwnershipFixer{}
}

// FixTree changes ownership of path and everything under it to the given
// identity. Stops at the first failure; callers treat any error as a
// warning, not a correctness problem.
func (OwnershipFixer) FixTree(path string, id domain.Identity) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Lchown so symlinks inside the tree are not followed out of it.
		return os.Lchown(p, id.UID, id.GID)
	})
}
