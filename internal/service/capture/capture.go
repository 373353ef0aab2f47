// Package capture launches the rig-local capture command when the flag goes up.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var (
	// ErrUnsupportedOS indicates the current OS is not supported for command launch.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrCommandRequired indicates no capture command was configured.
	ErrCommandRequired = errors.New("capture command must be provided")
)

// Start launches the configured capture command through the platform shell:
// - Linux/macOS: `sh -c <command>`
// - Windows:     `cmd.exe /C <command>`
// The command is started asynchronously; the capture pipeline takes over from there.
func Start(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrCommandRequired
	}

	osName := strings.ToLower(runtime.GOOS)

	switch {
	case strings.Contains(osName, "linux") || strings.Contains(osName, "darwin"):
		return exec.CommandContext(ctx, "sh", "-c", command).Start()
	case strings.Contains(osName, "windows"):
		return exec.CommandContext(ctx, "cmd.exe", "/C", command).Start()
	default:
		return fmt.Errorf("unsupported operating system: %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}
