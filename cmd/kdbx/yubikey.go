package main

import (
	"fmt"

	"github.com/spectralops/kdbx/internal/logging"
)

// YubiKey slot programming needs a USB HID driver, which nothing in the
// library layer provides: ChallengeResponder in the kdbx package is the
// wire-level contract a driver would satisfy, but wiring an actual slot
// requires hardware access this tool doesn't have yet.

func runYkAdd(logger logging.Logger, slot int) error {
	return fmt.Errorf("yk-add: no challenge-response driver wired for slot %d yet", slot)
}

func runYkRemove(logger logging.Logger, slot int) error {
	return fmt.Errorf("yk-remove: no challenge-response driver wired for slot %d yet", slot)
}

func runYkRecover(logger logging.Logger, path string) error {
	return fmt.Errorf("yk-recover: no challenge-response driver wired, cannot recover %s", path)
}
