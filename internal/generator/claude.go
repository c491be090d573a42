package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ProviderClaude names the claude CLI backend.
const ProviderClaude = "claude"

// DefaultSystemPrompt frames every CLI invocation as a code explanation task.
const DefaultSystemPrompt = "You are a senior developer explaining source code to a colleague. Answer in Markdown."

// ClaudeGenerator invokes the claude CLI in print mode. The prompt is
// written to stdin because file contents can exceed argv limits.
type ClaudeGenerator struct {
	// ClaudePath is the CLI binary. Defaults to "claude" from PATH.
	ClaudePath string
	// SystemPrompt is sent with every call. Defaults to DefaultSystemPrompt.
	SystemPrompt string
	// Model is passed through --model when set.
	Model string
}

// NewClaude returns a ClaudeGenerator with defaults applied.
func NewClaude(path, model string) *ClaudeGenerator {
	if path == "" {
		path = "claude"
	}
	return &ClaudeGenerator{
		ClaudePath:   path,
		SystemPrompt: DefaultSystemPrompt,
		Model:        model,
	}
}

// Generate runs one CLI call and returns the parsed result text.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", NewFailure(ProviderClaude, fmt.Errorf("prompt is required"))
	}

	cmd := exec.CommandContext(ctx, g.binary(), g.args()...)
	cmd.Stdin = strings.NewReader(prompt)
	setCleanEnv(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", NewFailure(ProviderClaude, fmt.Errorf("claude invocation failed: %w (output: %s)", err, strings.TrimSpace(stderr.String())))
	}

	text, err := ParseClaudeOutput(stdout.Bytes())
	if err != nil {
		return "", NewFailure(ProviderClaude, err)
	}
	return text, nil
}

func (g *ClaudeGenerator) binary() string {
	if g.ClaudePath == "" {
		return "claude"
	}
	return g.ClaudePath
}

func (g *ClaudeGenerator) args() []string {
	systemPrompt := g.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	args := []string{"-p", "--system-prompt", systemPrompt, "--output-format", "json"}
	if g.Model != "" {
		args = append(args, "--model", g.Model)
	}
	// Disable hooks for automation
	args = append(args, "--settings", `{"disableAllHooks": true}`)
	return args
}

type claudeOutput struct {
	Type      string `json:"type"`
	Result    string `json:"result"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error"`
	SessionID string `json:"session_id"`
}

// ParseClaudeOutput extracts the answer from `--output-format json`
// output. The "result" field wins over "content"; output that is not
// JSON is taken as plain text.
func ParseClaudeOutput(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", ErrEmptyResponse
	}

	var out claudeOutput
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nonEmpty(string(trimmed))
	}

	text := out.Result
	if text == "" {
		text = out.Content
	}
	if out.IsError {
		if text == "" {
			text = "unknown error"
		}
		return "", fmt.Errorf("claude reported an error: %s", text)
	}
	return nonEmpty(text)
}

// cleanTmpDir keeps CLI invocations away from editor socket files in the
// default temp directory.
var cleanTmpDir = filepath.Join(os.TempDir(), "explainer-claude")

// setCleanEnv copies the environment with TMPDIR pointed at cleanTmpDir.
func setCleanEnv(cmd *exec.Cmd) {
	os.MkdirAll(cleanTmpDir, 0755)

	cmd.Env = os.Environ()
	for i, env := range cmd.Env {
		if strings.HasPrefix(env, "TMPDIR=") {
			cmd.Env[i] = "TMPDIR=" + cleanTmpDir
			return
		}
	}
	cmd.Env = append(cmd.Env, "TMPDIR="+cleanTmpDir)
}
