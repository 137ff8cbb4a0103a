// Package testing flips the binaries into test mode when blank-imported from
// a test, so calling main() never opens databases or listens on ports.
package testing

import (
	"os"
	stdtesting "testing"

	"github.com/supplyline/supplyline/internal/app"
)

func init() {
	_ = os.Setenv(app.TestModeEnv, "1")
}

// TestMain can be delegated to from a package's own TestMain.
func TestMain(m *stdtesting.M) {
	_ = os.Setenv(app.TestModeEnv, "1")
	app.RefreshTestMode()
	os.Exit(m.Run())
}
