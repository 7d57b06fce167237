// Command mcpcli is a one-shot MCP client: it spawns a server binary as
// a child process, performs the initialize handshake over its stdio,
// issues one request, prints the JSON result, and exits. Adapted from
// the teacher's cmd/mcp/main.go (a CLI that turned arguments into a
// JSON request and printed a JSON response) into a genuine MCP client
// round trip instead of an in-process request/response shortcut.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/client"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/transport"
)

func main() {
	serverCmd := flag.String("server", "", "path to the MCP server binary to spawn (required)")
	toolName := flag.String("tool", "", "tool name to call; if empty, lists available tools")
	argsJSON := flag.String("args", "{}", "JSON object of tool arguments")
	timeout := flag.Duration("timeout", 10*time.Second, "overall request timeout")
	flag.Parse()

	logger.SetLevel(logger.FATAL)

	if *serverCmd == "" {
		fmt.Fprintln(os.Stderr, "usage: mcpcli -server <path-to-server-binary> [-tool name] [-args '{}']")
		os.Exit(2)
	}

	var arguments map[string]any
	if err := json.Unmarshal([]byte(*argsJSON), &arguments); err != nil {
		logger.Fatal("invalid -args JSON", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	child := exec.CommandContext(ctx, *serverCmd)
	child.Stderr = os.Stderr

	stdin, err := child.StdinPipe()
	if err != nil {
		logger.Fatal("failed to open child stdin", err)
	}
	stdout, err := child.StdoutPipe()
	if err != nil {
		logger.Fatal("failed to open child stdout", err)
	}
	if err := child.Start(); err != nil {
		logger.Fatal("failed to start server process", err)
	}

	t := transport.NewStdio(stdout, stdin, stdin.Close)
	info := mcp.Implementation{Name: "mcpcli", Version: "1.0.0"}
	c, err := client.Connect(ctx, t, info, mcp.ClientCapabilities{})
	if err != nil {
		logger.Fatal("handshake failed", err)
	}
	defer c.Close()

	var result any
	if *toolName == "" {
		result, err = c.ListTools(ctx, "")
	} else {
		result, err = c.CallTool(ctx, *toolName, arguments)
	}
	if err != nil {
		logger.Fatal("request failed", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("failed to marshal result", err)
	}
	fmt.Println(string(out))

	_ = child.Wait()
}
