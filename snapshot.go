package doc2reader

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-doc2reader/internal/process"
)

// Preview viewport, close to a laptop screen.
const (
	snapshotWidth  = 1280
	snapshotHeight = 800
)

// snapshotter renders a reader file to a PNG image.
type snapshotter interface {
	Snapshot(ctx context.Context, htmlPath string) ([]byte, error)
	Close() error
}

// rodSnapshotter implements snapshotter using go-rod.
// Rod downloads Chromium on first use if no browser is found.
type rodSnapshotter struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

func newRodSnapshotter(timeout time.Duration) *rodSnapshotter {
	return &rodSnapshotter{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (s *rodSnapshotter) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		process.KillProcessGroup(l.PID())
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s.browser = browser
	s.launcher = l
	return nil
}

// Snapshot loads htmlPath in headless Chrome and captures the first screen.
func (s *rodSnapshotter) Snapshot(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Context(ctx).Timeout(timeout)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             snapshotWidth,
		Height:            snapshotHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := page.Navigate(fileURL(htmlPath)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	png, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	return png, nil
}

// Close releases the browser and kills any leftover Chrome processes.
func (s *rodSnapshotter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}

	err := s.browser.Close()
	s.browser = nil

	if s.launcher != nil {
		process.KillProcessGroup(s.launcher.PID())
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return err
}

var _ snapshotter = (*rodSnapshotter)(nil)
