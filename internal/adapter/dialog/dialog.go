// Package dialog opens the platform's native file-open dialog through a
// helper process (zenity or kdialog, osascript, powershell). The helper owns
// the hidden window hosting the dialog, so the window is gone once the helper
// exits, whatever the user chose.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/bnema/vidwebp/internal/domain"
	"github.com/bnema/vidwebp/internal/infrastructure/logger"
	"github.com/bnema/vidwebp/internal/port"
	"go.uber.org/zap"
)

const (
	Title       = "Select a Video File"
	FilterLabel = "Video Files"
)

// cancelExitCode is what zenity, kdialog and osascript exit with when the
// user dismisses the dialog. PowerShell exits 0 with no output instead.
const cancelExitCode = 1

var ErrNoDialogTool = errors.New("no file dialog helper found")

type command struct {
	name string
	args []string
}

type Selector struct {
	goos     string
	lookPath func(string) (string, error)
	logger   *zap.Logger
}

func NewSelector(log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		logger:   log,
	}
}

func patterns(sep string) string {
	globs := make([]string, len(domain.VideoExtensions))
	for i, ext := range domain.VideoExtensions {
		globs[i] = "*" + ext
	}
	return strings.Join(globs, sep)
}

// candidates lists the helpers to try for goos, in order of preference.
func candidates(goos string) []command {
	switch goos {
	case "darwin":
		types := make([]string, len(domain.VideoExtensions))
		for i, ext := range domain.VideoExtensions {
			types[i] = `"` + strings.TrimPrefix(ext, ".") + `"`
		}
		script := fmt.Sprintf(`POSIX path of (choose file with prompt %q of type {%s})`,
			Title, strings.Join(types, ", "))
		return []command{{name: "osascript", args: []string{"-e", script}}}
	case "windows":
		script := strings.Join([]string{
			`Add-Type -AssemblyName System.Windows.Forms`,
			`$d = New-Object System.Windows.Forms.OpenFileDialog`,
			fmt.Sprintf(`$d.Title = '%s'`, Title),
			fmt.Sprintf(`$d.Filter = '%s|%s'`, FilterLabel, patterns(";")),
			`if ($d.ShowDialog() -eq [System.Windows.Forms.DialogResult]::OK) { $d.FileName }`,
			`$d.Dispose()`,
		}, "; ")
		return []command{{name: "powershell", args: []string{"-NoProfile", "-NonInteractive", "-STA", "-Command", script}}}
	default:
		return []command{
			{name: "zenity", args: []string{
				"--file-selection",
				"--title", Title,
				"--file-filter", FilterLabel + " | " + patterns(" "),
			}},
			{name: "kdialog", args: []string{
				"--title", Title,
				"--getopenfilename", ".",
				patterns(" ") + "|" + FilterLabel,
			}},
		}
	}
}

// SelectVideo blocks until the user picks a file or dismisses the dialog.
// A dismissed dialog returns "" and a nil error.
func (s *Selector) SelectVideo(ctx context.Context) (string, error) {
	for _, c := range candidates(s.goos) {
		bin, err := s.lookPath(c.name)
		if err != nil {
			s.logger.Debug("dialog helper not available", zap.String("helper", c.name))
			continue
		}
		return s.run(ctx, bin, c.args)
	}
	return "", fmt.Errorf("%w for %s", ErrNoDialogTool, s.goos)
}

func (s *Selector) run(ctx context.Context, bin string, args []string) (string, error) {
	output, err := exec.CommandContext(ctx, bin, args...).Output()
	path := strings.TrimSpace(string(output))

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == cancelExitCode && path == "" {
			s.logger.Debug("file dialog dismissed", zap.Int("exit_code", exitErr.ExitCode()))
			return "", nil
		}
		return "", fmt.Errorf("file dialog: %w", err)
	}

	if path != "" {
		s.logger.Info("video selected", zap.String("path", logger.SanitizeForLog(path)))
	}
	return path, nil
}

var _ port.FileSelector = (*Selector)(nil)
