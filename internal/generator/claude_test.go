package generator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaudeOutput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr string
	}{
		{name: "result field", raw: `{"type":"result","result":"explained","session_id":"s1"}`, want: "explained"},
		{name: "content fallback", raw: `{"content":"from content"}`, want: "from content"},
		{name: "result wins", raw: `{"result":"r","content":"c"}`, want: "r"},
		{name: "plain text", raw: "just text\n", want: "just text"},
		{name: "empty output", raw: "  \n", wantErr: "No content in API response"},
		{name: "empty result", raw: `{"result":""}`, wantErr: "No content in API response"},
		{name: "is_error", raw: `{"is_error":true,"result":"quota exceeded"}`, wantErr: "claude reported an error: quota exceeded"},
		{name: "is_error without text", raw: `{"is_error":true}`, wantErr: "claude reported an error: unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClaudeOutput([]byte(tt.raw))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaudeArgs(t *testing.T) {
	g := NewClaude("", "sonnet")
	assert.Equal(t, "claude", g.binary())
	assert.Equal(t, []string{
		"-p", "--system-prompt", DefaultSystemPrompt, "--output-format", "json",
		"--model", "sonnet",
		"--settings", `{"disableAllHooks": true}`,
	}, g.args())
}

// fakeClaude writes a shell script that echoes stdin back as a JSON result.
func fakeClaude(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestClaudeGenerate(t *testing.T) {
	path := fakeClaude(t, `read line; printf '{"result":"got %s"}' "$line"`+"\n")

	text, err := NewClaude(path, "").Generate(context.Background(), "hello\n")
	require.NoError(t, err)
	assert.Equal(t, "got hello", text)
}

func TestClaudeGenerateFailure(t *testing.T) {
	path := fakeClaude(t, "echo 'not logged in' >&2\nexit 3\n")

	_, err := NewClaude(path, "").Generate(context.Background(), "hello")
	require.Error(t, err)
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, ProviderClaude, f.Provider)
	assert.Contains(t, f.Reason, "not logged in")
}

func TestClaudeGenerateEmptyPrompt(t *testing.T) {
	_, err := NewClaude("", "").Generate(context.Background(), "")
	assert.Error(t, err)
}
