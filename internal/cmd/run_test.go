package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/explainer/internal/config"
	"github.com/harrison/explainer/internal/generator"
	"github.com/harrison/explainer/internal/pipeline"
)

// createProject writes files (slash paths relative to the project root)
// into a fresh project directory and returns its path.
func createProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "proj")
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	return dir
}

// useGenerator swaps the generator factory for the duration of the test
// and points the explainer home at a temporary directory.
func useGenerator(t *testing.T, gen generator.Generator) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)

	prev := newGenerator
	newGenerator = func(config.GeneratorConfig) (generator.Generator, error) {
		return gen, nil
	}
	t.Cleanup(func() { newGenerator = prev })
	return home
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCommand()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func echoGenerator() generator.Generator {
	return generator.Func(func(ctx context.Context, prompt string) (string, error) {
		return "# Heading\n\nExplains the file.", nil
	})
}

func TestRunCommand_Basic(t *testing.T) {
	home := useGenerator(t, echoGenerator())
	project := createProject(t, map[string]string{
		"main.go":    "package main\n",
		"docs/a.txt": "hello\n",
		".gitignore": "*.log\n",
		"debug.log":  "noise\n",
	})

	output, err := executeCommand(t, "run", project, "--log-dir", "")
	if err != nil {
		t.Fatalf("run returned error: %v\noutput: %s", err, output)
	}

	outputDir := filepath.Join(home, ".explainer", "work", "output")
	for _, name := range []string{"main.go.md", "a.txt.md", ".gitignore.md", pipeline.OverviewName} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("Expected document %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "debug.log.md")); !os.IsNotExist(err) {
		t.Errorf("Ignored file debug.log should not be explained, stat err = %v", err)
	}

	overview, err := os.ReadFile(filepath.Join(outputDir, pipeline.OverviewName))
	if err != nil {
		t.Fatalf("Failed to read overview: %v", err)
	}
	if !strings.Contains(string(overview), "Explains the file.") {
		t.Errorf("Overview should carry the summary line, got: %s", overview)
	}

	if !strings.Contains(output, "Explaining 3 files:") {
		t.Errorf("Expected progress header, got: %s", output)
	}
	if !strings.Contains(output, "Explained 3 files") {
		t.Errorf("Expected completion message, got: %s", output)
	}
}

func TestRunCommand_WritesLogFile(t *testing.T) {
	home := useGenerator(t, echoGenerator())
	project := createProject(t, map[string]string{"a.txt": "hello\n"})

	if output, err := executeCommand(t, "run", project); err != nil {
		t.Fatalf("run returned error: %v\noutput: %s", err, output)
	}

	logs, err := filepath.Glob(filepath.Join(home, ".explainer", "logs", "run-*.log"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("Expected one run log, found %d", len(logs))
	}
}

func TestRunCommand_GeneratorFailureIsNotFatal(t *testing.T) {
	home := useGenerator(t, generator.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}))
	project := createProject(t, map[string]string{"a.txt": "hello\n"})

	output, err := executeCommand(t, "run", project, "--log-dir", "")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	doc, err := os.ReadFile(filepath.Join(home, ".explainer", "work", "output", "a.txt.md"))
	if err != nil {
		t.Fatalf("Failed to read document: %v", err)
	}
	if !strings.Contains(string(doc), pipeline.FailurePrefix+"quota exceeded") {
		t.Errorf("Document should carry the failure placeholder, got: %s", doc)
	}
	if !strings.Contains(output, "1 files could not be explained") {
		t.Errorf("Expected failure count in output, got: %s", output)
	}
}

func TestRunCommand_ConfigFile(t *testing.T) {
	home := useGenerator(t, echoGenerator())
	workDir := filepath.Join(t.TempDir(), "work")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "log_dir: \"\"\nwork_dir: " + workDir + "\nconcurrency: 2\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	project := createProject(t, map[string]string{"a.txt": "a\n", "b.txt": "b\n"})

	if output, err := executeCommand(t, "run", project, "--config", configPath); err != nil {
		t.Fatalf("run returned error: %v\noutput: %s", err, output)
	}

	if _, err := os.Stat(filepath.Join(workDir, "output", "b.txt.md")); err != nil {
		t.Errorf("Expected document in configured work dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".explainer", "logs")); !os.IsNotExist(err) {
		t.Errorf("Empty log_dir should disable file logging, stat err = %v", err)
	}
}

func TestRunCommand_InvalidFlag(t *testing.T) {
	useGenerator(t, echoGenerator())
	project := createProject(t, map[string]string{"a.txt": "hello\n"})

	_, err := executeCommand(t, "run", project, "--concurrency", "0")
	if err == nil || !strings.Contains(err.Error(), "concurrency") {
		t.Errorf("Expected concurrency validation error, got: %v", err)
	}
}

func TestRunCommand_MissingDirectory(t *testing.T) {
	useGenerator(t, echoGenerator())

	_, err := executeCommand(t, "run", filepath.Join(t.TempDir(), "missing"), "--log-dir", "")
	if err == nil {
		t.Fatal("Expected error for missing directory")
	}
}

func TestRunCommand_RequiresOneArgument(t *testing.T) {
	useGenerator(t, echoGenerator())

	if _, err := executeCommand(t, "run"); err == nil {
		t.Error("Expected error when no directory is given")
	}
}

func TestRunCommand_AllIgnored(t *testing.T) {
	useGenerator(t, echoGenerator())
	project := createProject(t, map[string]string{
		".gitignore": "*\n",
	})

	_, err := executeCommand(t, "run", project, "--log-dir", "")
	if err == nil || !strings.Contains(err.Error(), "No valid files") {
		t.Errorf("Expected ingestion error, got: %v", err)
	}
}

func TestRunCommand_SkipsOwnWorkArea(t *testing.T) {
	home := useGenerator(t, echoGenerator())
	if err := os.WriteFile(filepath.Join(home, "main.py"), []byte("print(1)\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	for i := 0; i < 2; i++ {
		if output, err := executeCommand(t, "run", home); err != nil {
			t.Fatalf("run %d returned error: %v\noutput: %s", i+1, err, output)
		}
	}

	outputDir := filepath.Join(home, ".explainer", "work", "output")
	overview, err := os.ReadFile(filepath.Join(outputDir, pipeline.OverviewName))
	if err != nil {
		t.Fatalf("Failed to read overview: %v", err)
	}
	if got := strings.Count(string(overview), "### ["); got != 1 {
		t.Errorf("Expected one overview entry, got %d:\n%s", got, overview)
	}
	for _, leaked := range []string{".explainer/work", ".explainer/logs", ".log", ".explainer.lock"} {
		if strings.Contains(string(overview), leaked) {
			t.Errorf("Overview should not mention %q:\n%s", leaked, overview)
		}
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("Failed to list output: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 2 {
		t.Errorf("Expected main.py.md and the overview only, got %v", names)
	}
}

func TestRunCommand_ProgressCountsSkippedFiles(t *testing.T) {
	useGenerator(t, echoGenerator())
	project := createProject(t, map[string]string{
		"a.txt":    "a\n",
		"logo.png": string([]byte{0x89, 'P', 'N', 'G', 0xff, 0xfe}),
		"b.txt":    "b\n",
	})

	output, err := executeCommand(t, "run", project, "--log-dir", "")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(output, "[3/3]") {
		t.Errorf("Expected progress to reach [3/3], got: %s", output)
	}
	if !strings.Contains(output, "logo.png (skipped:") {
		t.Errorf("Expected skipped file in progress, got: %s", output)
	}
	if !strings.Contains(output, "Explained 2 files, skipped 1") {
		t.Errorf("Expected completion with skip count, got: %s", output)
	}
}
