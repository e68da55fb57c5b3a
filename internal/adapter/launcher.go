package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// Launcher opens web links (trailer searches, posters) in an external program
type Launcher struct {
	command string   // configured program, empty for system default
	args    []string // additional arguments placed before the URL
	logger  *slog.Logger

	// start runs the command; replaced in tests
	start func(name string, args ...string) error
}

// candidateBrowsers defines the preferred fallback order when no system
// opener is found
var candidateBrowsers = map[string][]string{
	"linux":   {"xdg-open", "sensible-browser", "firefox", "chromium"},
	"freebsd": {"xdg-open", "firefox"},
}

// NewLauncher creates a Launcher. An empty command uses the system default.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		start:   startDetached,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open launches link. Only http and https links are accepted.
func (l *Launcher) Open(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not a web link", link)
	}

	// Tier 1: User configured a specific program
	if l.command != "" {
		args := append(append([]string{}, l.args...), link)
		l.logger.Info("opening link", "command", l.command, "url", link)
		return l.start(l.command, args...)
	}

	// Tier 2: Platform opener
	err = l.launchDefault(link)
	if err == nil {
		return nil
	}
	l.logger.Debug("system opener unavailable", "error", err)

	// Tier 3: Known browsers in PATH
	for _, name := range candidateBrowsers[runtime.GOOS] {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if err := l.start(name, link); err == nil {
			l.logger.Info("opened with detected browser", "browser", name)
			return nil
		}
	}
	return fmt.Errorf("no program available to open %s", link)
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(link string) error {
	l.logger.Info("opening with system default", "os", runtime.GOOS, "url", link)
	switch runtime.GOOS {
	case "darwin":
		return l.start("open", link)
	case "windows":
		return l.start("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		return l.start("xdg-open", link)
	}
}
