package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
)

// httpRequestTimeout bounds one api-navigator HTTP round-trip.
const httpRequestTimeout = 60 * time.Second

var apiHTTPClient = &http.Client{Timeout: httpRequestTimeout}

func registerAPITools(reg *registry.Registry) error {
	type requestArgs struct {
		Method  string            `json:"method"`
		URL     string            `json:"url"`
		Headers map[string]string `json:"headers"`
		Body    string            `json:"body"`
	}
	return reg.Register(agent.ToolDefinition{
		Name:        "http_request",
		Description: "Perform an HTTP request and return the status code, headers of interest, and response body.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"method": {"type": "string", "enum": ["GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"]},
				"url": {"type": "string", "description": "Absolute request URL"},
				"headers": {"type": "object", "additionalProperties": {"type": "string"}},
				"body": {"type": "string", "description": "Raw request body; optional"}
			},
			"required": ["method", "url"]
		}`,
	}, []agent.Tag{agent.TagAPI}, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args requestArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "http_request: %v", err)
		}

		var body io.Reader
		if args.Body != "" {
			body = strings.NewReader(args.Body)
		}
		req, err := http.NewRequestWithContext(ctx, strings.ToUpper(args.Method), args.URL, body)
		if err != nil {
			return errorResult("http_request", err), nil
		}
		for k, v := range args.Headers {
			req.Header.Set(k, v)
		}
		if args.Body != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := apiHTTPClient.Do(req)
		if err != nil {
			return errorResult("http_request", err), nil
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxObservationChars+1))
		if err != nil {
			return errorResult("http_request", fmt.Errorf("reading response body: %w", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Status: %s\n", resp.Status)
		if ct := resp.Header.Get("Content-Type"); ct != "" {
			fmt.Fprintf(&sb, "Content-Type: %s\n", ct)
		}
		sb.WriteString("Body:\n")
		sb.WriteString(truncate(string(data)))
		return textResult("http_request", sb.String()), nil
	})
}
