// Package display provides terminal UI utilities for progress, warnings and status messages.
//
// # Progress Indicators
//
// Use ProgressIndicator while the pipeline walks eligible files:
//
//	progress := display.NewProgressIndicator(os.Stdout, total)
//	progress.Start()
//	progress.Step("src/main.py")
//	progress.Complete()
//
// Step is safe to call from concurrent workers.
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "Output Name Collision",
//	    Message:    "Two files share the basename util.py",
//	    Files:      []string{"a/util.py", "b/util.py"},
//	    Suggestion: "Rename one of the files",
//	}
//	warning.Display(os.Stderr)
//
// WarnCollisions builds one such warning per colliding output document.
package display
