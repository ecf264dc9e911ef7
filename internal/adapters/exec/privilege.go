package exec

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/mtp-labs/bootship/internal/domain"
)

// PrivilegeDropper implements ports.PrivilegeDropper with setgid/setuid.
type PrivilegeDropper struct{}

// NewPrivilegeDropper creates a new privilege dropper.
func NewPrivilegeDropper() *PrivilegeDropper {
	return &PrivilegeDropper{}
}

// Drop switches the process to the unprivileged identity. Group identity
// must be dropped before user identity; once the uid changes there is no
// way back.
func (PrivilegeDropper) Drop(id domain.Identity) error {
	if err := unix.Setgroups([]int{id.GID}); err != nil {
		return fmt.Errorf("setgroups %d: %w", id.GID, err)
	}
	if err := unix.Setgid(id.GID); err != nil {
		return fmt.Errorf("setgid %d: %w", id.GID, err)
	}
	if err := unix.Setuid(id.UID); err != nil {
		return fmt.Errorf("setuid %d: %w", id.UID, err)
	}
	return nil
}
