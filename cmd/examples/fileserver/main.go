// Command fileserver is a minimal MCP server publishing the files under
// a root directory as resources, plus an html_to_markdown tool adapted
// from the teacher's pkg/tools/htmltomarkdown.go.
package main

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/andybalholm/brotli"
	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/server"
)

var markdownToolSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"url": {
			"type": "string",
			"description": "The URL of the HTML page to convert to markdown"
		}
	},
	"required": ["url"]
}`)

func registerResources(b *server.Builder, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		uri := "file:///" + filepath.ToSlash(rel)
		b.WithResource(mcp.Resource{
			URI:      uri,
			Name:     rel,
			MimeType: mimeTypeFor(path),
		}, func(ctx context.Context, readURI string) (*mcp.ResourcesReadResult, error) {
			return readFileResource(root, readURI)
		})
		return nil
	})
}

func readFileResource(root, uri string) (*mcp.ResourcesReadResult, error) {
	rel := strings.TrimPrefix(uri, "file:///")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	return &mcp.ResourcesReadResult{
		Contents: []mcp.ResourceContents{{
			URI:      uri,
			MimeType: mimeTypeFor(rel),
			Text:     string(data),
		}},
	}, nil
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func handleHTMLToMarkdown(ctx context.Context, args map[string]any) (*mcp.ToolsCallResult, error) {
	pageURL, ok := args["url"].(string)
	if !ok || pageURL == "" {
		return nil, fmt.Errorf("url parameter is required and must be a string")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; mcpsession-fileserver/1.0)")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader, err := decodedReader(resp)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	domain := extractDomain(pageURL)
	markdown, err := htmltomarkdown.ConvertString(string(body), converter.WithDomain(domain))
	if err != nil {
		return nil, err
	}

	const maxLength = 10000
	if len(markdown) > maxLength {
		markdown = markdown[:maxLength] + "\n\n... (content truncated due to size)"
	}

	content, err := json.Marshal(map[string]string{"type": "text", "text": markdown})
	if err != nil {
		return nil, err
	}
	return &mcp.ToolsCallResult{Content: []json.RawMessage{content}}, nil
}

// decodedReader wraps resp.Body to transparently undo Content-Encoding,
// adapted from the teacher's pkg/transport/httpclient.go GetHtml.
func decodedReader(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return resp.Body, nil
	}
}

func extractDomain(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	if strings.HasPrefix(rawURL, "http://") {
		return "http://" + parsed.Hostname()
	}
	return "https://" + parsed.Hostname()
}

func main() {
	logger.SetLevel(logger.FATAL)

	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	b := server.NewBuilder().
		WithInfo("fileserver-example", "1.0.0").
		WithResourcesConfig(true, false).
		WithTools().
		WithTool(mcp.Tool{
			Name:        "html_to_markdown",
			Description: "Fetches a URL and converts its HTML content to Markdown",
			InputSchema: markdownToolSchema,
		}, handleHTMLToMarkdown)

	if err := registerResources(b, root); err != nil {
		logger.Fatal("failed to scan resource root", err)
	}

	srv, err := b.Build()
	if err != nil {
		logger.Fatal("failed to build server", err)
	}

	if err := srv.RunStdio(context.Background()); err != nil {
		logger.Error("server exited with error", err)
		os.Exit(1)
	}
}
