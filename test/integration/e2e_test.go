package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/explainer/internal/config"
	"github.com/harrison/explainer/internal/generator"
	"github.com/harrison/explainer/internal/ingest"
	"github.com/harrison/explainer/internal/pipeline"
	"github.com/harrison/explainer/internal/server"
	"github.com/harrison/explainer/internal/storage"
)

var fixtureProject = filepath.Join("fixtures", "sample")

// wantDocuments are the documents the sample project produces;
// build/ and *.tmp are excluded by its .gitignore.
var wantDocuments = []string{".gitignore.md", "README.md.md", "main.go.md", "helper.go.md"}

// fakeChatAPI serves OpenAI chat completions, answering each prompt with
// a fixed explanation and recording the prompts it saw.
type fakeChatAPI struct {
	mu      sync.Mutex
	prompts []string
}

func (api *fakeChatAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	api.mu.Lock()
	api.prompts = append(api.prompts, req.Messages[0].Content)
	api.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": "## Purpose\n\nPart of the sample project."},
		}},
	})
}

func (api *fakeChatAPI) Prompts() []string {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]string(nil), api.prompts...)
}

// loadTestConfig writes a config file pointing the OpenAI generator at
// baseURL and loads it the way the CLI does.
func loadTestConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	t.Setenv("OPENAI_API_KEY", "sk-integration")

	dir := filepath.Join(home, ".explainer")
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := fmt.Sprintf(`log_dir: ""
concurrency: 3
generator:
  provider: openai
  model: gpt-4o-mini
  base_url: %s
  timeout: 10s
`, baseURL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := config.LoadConfigFromDir(home)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	cfg.ResolvePaths(home)
	return cfg
}

func TestExplainFixtureProject(t *testing.T) {
	api := &fakeChatAPI{}
	chat := httptest.NewServer(api)
	defer chat.Close()

	cfg := loadTestConfig(t, chat.URL)
	gen, err := generator.New(cfg.Generator)
	require.NoError(t, err)

	fs := afero.NewOsFs()
	files, err := ingest.LoadDirectory(fs, fixtureProject)
	require.NoError(t, err)

	ws := storage.New(fs, cfg.WorkDir)
	ingested, err := ingest.New(ws, nil).Ingest(context.Background(), files)
	require.NoError(t, err)
	assert.Nil(t, ingested.StorageErrors)
	assert.Len(t, ingested.Run.Accepted, 4)

	result, err := pipeline.New(ws, gen, nil, pipeline.Options{
		Concurrency: cfg.Concurrency,
		MaxFileSize: cfg.MaxFileSize,
	}).Run(context.Background(), ingested.Run)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Processed)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.Skipped)
	assert.ElementsMatch(t, wantDocuments, result.Documents)

	outputDir := ws.Path(storage.AreaOutput)
	for _, name := range []string{"out.txt.md", "notes.tmp.md"} {
		_, err := os.Stat(filepath.Join(outputDir, name))
		assert.True(t, os.IsNotExist(err), "%s should not be generated", name)
	}

	overview, err := os.ReadFile(result.OverviewPath)
	require.NoError(t, err)
	for _, name := range wantDocuments {
		assert.Contains(t, string(overview), "("+name+")")
	}
	assert.Contains(t, string(overview), "Part of the sample project.")

	prompts := api.Prompts()
	require.Len(t, prompts, 4)
	for _, p := range prompts {
		assert.Contains(t, p, "src/")
		assert.NotContains(t, p, "out.txt")
	}
}

func TestServeFixtureProject(t *testing.T) {
	chat := httptest.NewServer(&fakeChatAPI{})
	defer chat.Close()

	cfg := loadTestConfig(t, chat.URL)
	gen, err := generator.New(cfg.Generator)
	require.NoError(t, err)

	srv := server.NewServer(storage.New(afero.NewOsFs(), cfg.WorkDir), gen,
		server.WithAddr("127.0.0.1:0"),
		server.WithShutdownTimeout(5*time.Second),
	)
	ln, err := srv.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, ln) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	base := "http://" + ln.Addr().String()
	client := cleanhttp.DefaultClient()

	files, err := ingest.LoadDirectory(afero.NewOsFs(), fixtureProject)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("folder", f.Path)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := client.Post(base+"/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Post(base+"/generate_explanation", "application/json", nil)
	require.NoError(t, err)
	var generated struct {
		Success      bool   `json:"success"`
		OverviewPath string `json:"overview_path"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&generated))
	resp.Body.Close()
	assert.True(t, generated.Success)
	assert.Equal(t, "output/project_overview.md", generated.OverviewPath)

	resp, err = client.Get(base + "/output/main.go.md")
	require.NoError(t, err)
	doc, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(doc), "# Explanation for sample/src/main.go"), string(doc))

	resp, err = client.Get(base + "/view/project_overview.md")
	require.NoError(t, err)
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h2>")
}
