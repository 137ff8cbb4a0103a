package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supplyline/supplyline/internal/app"
	_ "github.com/supplyline/supplyline/testing"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
	main()
}
