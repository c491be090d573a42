package display

import (
	"fmt"
	"io"
	"sync"
)

// ProgressIndicator manages multi-step progress display with ANSI colors
type ProgressIndicator struct {
	mu         sync.Mutex
	writer     io.Writer
	totalFiles int
	current    int
	skipped    int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer:     w,
		totalFiles: total,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Explaining %d files:\n", p.totalFiles)
}

// Step displays progress for current item: [N/Total] path (cyan)
func (p *ProgressIndicator) Step(relPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current++
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", p.current, p.totalFiles, relPath)
}

// Skip displays a file that will not be explained: [N/Total] path (gray)
func (p *ProgressIndicator) Skip(relPath, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current++
	p.skipped++
	fmt.Fprintf(p.writer, "\x1b[90m  [%d/%d] %s (skipped: %s)\x1b[0m\n", p.current, p.totalFiles, relPath, reason)
}

// Current returns how many steps have been displayed.
func (p *ProgressIndicator) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Complete displays success message with green checkmark
func (p *ProgressIndicator) Complete(overviewPath string) {
	p.mu.Lock()
	explained, skipped := p.current-p.skipped, p.skipped
	p.mu.Unlock()

	if skipped > 0 {
		fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Explained %d files, skipped %d, overview at %s\n", explained, skipped, overviewPath)
		return
	}
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Explained %d files, overview at %s\n", explained, overviewPath)
}
