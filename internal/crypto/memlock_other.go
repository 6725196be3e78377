//go:build !linux && !darwin && !windows

package crypto

// Memory locking is not available here; secrets are still zeroed.
func LockMemory(b []byte) error { return nil }

func UnlockMemory(b []byte) error { return nil }
