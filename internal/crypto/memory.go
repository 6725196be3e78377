package crypto

import (
	"fmt"
	"os"
	"sync"

	"github.com/carved4/go-kpscript/internal/log"
	"github.com/carved4/go-kpscript/internal/ui"
	"golang.org/x/term"
)

var lockedMemory = make(map[*byte]bool)
var lockMutex sync.Mutex

// lockWarning is logged once per process. Where mlock is limited every
// secret fails the same way, so later failures only go to the debug log.
var lockWarning sync.Once

func reportLockError(op string, err error) {
	warned := false
	lockWarning.Do(func() {
		log.Warnf("could not %s memory, secrets may be swapped to disk: %v", op, err)
		warned = true
	})
	if !warned {
		log.Debugf("could not %s memory: %v", op, err)
	}
}

// SecureBytes pins data in RAM so it cannot be swapped out. Failing to lock
// is not fatal, the data is still zeroed by CleanupBytes.
func SecureBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	lockMutex.Lock()
	defer lockMutex.Unlock()

	if lockedMemory[&data[0]] {
		return
	}

	if err := LockMemory(data); err != nil {
		reportLockError("lock", err)
		return
	}
	lockedMemory[&data[0]] = true
}

// CleanupBytes zeroes data and releases the lock taken by SecureBytes, if any.
func CleanupBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	ZeroMemory(data)

	lockMutex.Lock()
	wasLocked := lockedMemory[&data[0]]
	if wasLocked {
		delete(lockedMemory, &data[0])
	}
	lockMutex.Unlock()

	if wasLocked {
		if err := UnlockMemory(data); err != nil {
			reportLockError("unlock", err)
		}
	}
}

func ZeroMemory(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func ReadUserPass(prompt string) ([]byte, error) {
	if prompt == "" {
		prompt = "enter password: "
	}
	ui.PrintPrompt(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(ui.Err)
	if err != nil {
		return nil, fmt.Errorf("password could not be read: %w", err)
	}
	SecureBytes(password)
	return password, nil
}

// ReadUserPassTwice prompts for a password and its confirmation.
func ReadUserPassTwice(prompt string) ([]byte, error) {
	password, err := ReadUserPass(prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := ReadUserPass("confirm password: ")
	if err != nil {
		CleanupBytes(password)
		return nil, err
	}
	defer CleanupBytes(confirm)

	if string(password) != string(confirm) {
		CleanupBytes(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}
