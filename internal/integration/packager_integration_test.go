package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/fire-trigger/internal/config"
	"github.com/oshokin/fire-trigger/internal/service/packager"
	upd "github.com/oshokin/fire-trigger/internal/service/updater"
)

// TestPackager_WritesManifest generates a minimal manifest with placeholder files and verifies it exists.
func TestPackager_WritesManifest(t *testing.T) {
	// Setup test directory and change working directory.
	dir := t.TempDir()
	prev, _ := os.Getwd() //nolint:errcheck // Test code needs simple os.Getwd for directory change.

	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})

	// Start a real trigger server so the reachability check passes.
	addr := reservePort(t)

	stop := startServer(t, addr)
	defer stop()

	// Create placeholder files expected by packager.
	for _, name := range upd.FilesWithChecksum() {
		f, err := os.Create(name)
		require.NoError(t, err)

		_ = f.Close()
	}

	// Run packager with timeout context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	options := &packager.Options{
		// Ensure the settings file is one of checksummed files.
		ConfigPath:    config.DefaultConfigFilename,
		UpdateFolder:  "http://localhost/updates",
		ServerAddress: addr,
	}

	err := packager.Run(ctx, options)
	require.NoError(t, err)

	// Verify version manifest file was created.
	_, err = os.Stat(upd.VersionFilename)
	require.NoError(t, err)
}
