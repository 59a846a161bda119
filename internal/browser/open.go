// Package browser hands storefront URLs to the desktop's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// launch starts name with args without waiting for it. Swapped in tests.
var launch = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens rawURL in the user's default browser. Only absolute http and
// https URLs are handed to the OS.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser.Open: refusing %q", rawURL)
	}

	switch runtime.GOOS {
	case "darwin":
		return launch("open", u.String())
	case "linux", "freebsd", "openbsd":
		return launch("xdg-open", u.String())
	case "windows":
		return launch("rundll32", "url.dll,FileProtocolHandler", u.String())
	default:
		return fmt.Errorf("browser.Open: unsupported OS: %s", runtime.GOOS)
	}
}
