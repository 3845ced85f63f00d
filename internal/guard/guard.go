// Package guard provides reference-counted interception of a diagnostic
// error stream.
//
// When a probabilistic renderer probes a component that belongs to another
// framework, the foreign framework's internal invariant checks can spew
// errors onto the diagnostic stream even though the probe was contained. The
// guard filters that recognized noise out while forwarding everything else
// unchanged.
//
// The guard is an explicit injectable service, not a package-level global,
// so tests can construct their own instances. Once installed it stays
// installed for the life of the process: uninstalling while other probes are
// in flight would race, and the filter is harmless when idle.
package guard

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
)

// DisableEnv, when set to a non-empty value, makes every guard pass writes
// through unfiltered. Tests that need to prove filter behavior without the
// safety net set this.
const DisableEnv = "ISLET_DISABLE_ERROR_GUARD"

// defaultSignatures is the recognized noise produced when a side-effecting
// probe trips another framework's invariant checks. Matching is by message
// content, not framework version, because exact wording shifts between
// releases; treat this as best-effort and extend it as new signatures show
// up in the wild.
var defaultSignatures = []string{
	"Invalid hook call.",
	"Hooks can only be called inside of the body of a function component",
}

// Guard intercepts a diagnostic stream and suppresses recognized noise while
// at least one probe has ever been active.
type Guard struct {
	mu         sync.Mutex
	out        io.Writer
	signatures []string
	installed  bool
	activeUses int
	disabled   bool
}

// New creates a guard over out (os.Stderr when nil). extra signatures are
// recognized in addition to the built-in set.
func New(out io.Writer, extra ...string) *Guard {
	if out == nil {
		out = os.Stderr
	}

	signatures := make([]string, 0, len(defaultSignatures)+len(extra))
	signatures = append(signatures, defaultSignatures...)
	signatures = append(signatures, extra...)

	return &Guard{
		out:        out,
		signatures: signatures,
		disabled:   os.Getenv(DisableEnv) != "",
	}
}

// Handle represents one active use of the guard.
type Handle struct {
	guard   *Guard
	release sync.Once
}

// Use marks the start of a side-effecting probe. The first use ever installs
// the interception.
func (g *Guard) Use() *Handle {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.activeUses++
	if !g.installed {
		g.installed = true
	}

	return &Handle{guard: g}
}

// Release marks the end of a probe. The interception itself is never
// uninstalled, only the active-use count drops. Releasing twice is a no-op.
func (h *Handle) Release() {
	h.release.Do(func() {
		h.guard.mu.Lock()
		defer h.guard.mu.Unlock()

		if h.guard.activeUses > 0 {
			h.guard.activeUses--
		}
	})
}

// Installed reports whether the interception has ever been installed.
func (g *Guard) Installed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.installed
}

// ActiveUses returns the number of probes currently holding the guard.
func (g *Guard) ActiveUses() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.activeUses
}

// Stream returns the writer renderers should emit diagnostics to.
func (g *Guard) Stream() io.Writer {
	return g
}

// Write implements io.Writer. While installed (and not disabled), lines
// matching a recognized signature are dropped; everything else is forwarded
// unchanged. The reported length always covers the full input so callers
// never see a short write for suppressed content.
func (g *Guard) Write(p []byte) (int, error) {
	g.mu.Lock()
	installed := g.installed && !g.disabled
	signatures := g.signatures
	out := g.out
	g.mu.Unlock()

	if !installed {
		return out.Write(p)
	}

	var kept bytes.Buffer
	rest := p
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i+1]
			rest = rest[i+1:]
		} else {
			rest = nil
		}
		if !recognized(string(line), signatures) {
			kept.Write(line)
		}
	}

	if kept.Len() > 0 {
		if _, err := out.Write(kept.Bytes()); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

func recognized(line string, signatures []string) bool {
	for _, sig := range signatures {
		if strings.Contains(line, sig) {
			return true
		}
	}

	return false
}
