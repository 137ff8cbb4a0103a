package app

import (
	"os"
	"strconv"
	"sync/atomic"
)

// TestModeEnv, when truthy, makes the binary return before touching config,
// the database or the network.
const TestModeEnv = "SUPPLYLINE_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether startup side effects should be skipped. The
// environment is read on first call and cached.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	return RefreshTestMode()
}

// RefreshTestMode re-reads TestModeEnv and returns the new value.
func RefreshTestMode() bool {
	on, _ := strconv.ParseBool(os.Getenv(TestModeEnv))
	testMode.Store(&on)
	return on
}
