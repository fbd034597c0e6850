package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/browser"
)

var browserVisibility = []agent.Tag{agent.TagBrowser}

func registerBrowserTools(reg *registry.Registry, mgr *browser.Manager, screenshotDir string) error {
	type openurlArgs struct {
		URL string `json:"url"`
	}
	err := reg.Register(agent.ToolDefinition{
		Name:        "openurl",
		Description: "Navigate the browser to a URL and wait for the page to load.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"url": {"type": "string", "description": "Absolute URL to open"}},
			"required": ["url"]
		}`,
	}, browserVisibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args openurlArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "openurl: %v", err)
		}
		if err := mgr.Goto(args.URL); err != nil {
			return errorResult("openurl", err), nil
		}
		return textResult("openurl", fmt.Sprintf("Navigated to %s. Current page: %s", args.URL, mgr.CurrentURL())), nil
	})
	if err != nil {
		return err
	}

	type clickArgs struct {
		Selector string `json:"selector"`
	}
	err = reg.Register(agent.ToolDefinition{
		Name:        "click",
		Description: "Click the first element matching a CSS selector.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"selector": {"type": "string", "description": "CSS selector of the element to click"}},
			"required": ["selector"]
		}`,
	}, browserVisibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args clickArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "click: %v", err)
		}
		if err := mgr.Click(args.Selector); err != nil {
			return errorResult("click", err), nil
		}
		return textResult("click", fmt.Sprintf("Clicked %q. Current page: %s", args.Selector, mgr.CurrentURL())), nil
	})
	if err != nil {
		return err
	}

	type entertextArgs struct {
		Selector string `json:"selector"`
		Text     string `json:"text"`
	}
	err = reg.Register(agent.ToolDefinition{
		Name:        "entertext",
		Description: "Clear the first element matching a CSS selector and type text into it.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"selector": {"type": "string", "description": "CSS selector of the input"},
				"text": {"type": "string", "description": "Text to enter"}
			},
			"required": ["selector", "text"]
		}`,
	}, browserVisibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args entertextArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "entertext: %v", err)
		}
		if err := mgr.Fill(args.Selector, args.Text); err != nil {
			return errorResult("entertext", err), nil
		}
		return textResult("entertext", fmt.Sprintf("Entered text into %q.", args.Selector)), nil
	})
	if err != nil {
		return err
	}

	type gettextArgs struct {
		Selector string `json:"selector"`
	}
	err = reg.Register(agent.ToolDefinition{
		Name:        "gettext",
		Description: "Read the text content of the first element matching a CSS selector; with no selector, read the page body.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"selector": {"type": "string", "description": "CSS selector; omit for the whole page"}}
		}`,
	}, browserVisibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args gettextArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "gettext: %v", err)
		}
		text, err := mgr.TextContent(args.Selector)
		if err != nil {
			return errorResult("gettext", err), nil
		}
		text = compactWhitespace(text)
		if text == "" {
			text = "(no text content)"
		}
		return textResult("gettext", truncate(text)), nil
	})
	if err != nil {
		return err
	}

	if screenshotDir == "" {
		return nil
	}
	type screenshotArgs struct {
		Name string `json:"name"`
	}
	return reg.Register(agent.ToolDefinition{
		Name:        "screenshot",
		Description: "Capture a full-page screenshot as a proof artifact.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"name": {"type": "string", "description": "Base name for the capture; optional"}}
		}`,
	}, browserVisibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args screenshotArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "screenshot: %v", err)
		}
		name := args.Name
		if name == "" {
			name = "capture"
		}
		name = strings.ReplaceAll(name, string(filepath.Separator), "_")
		path := filepath.Join(screenshotDir, fmt.Sprintf("%s_%s.png", name, time.Now().Format("20060102T150405")))
		if err := mgr.Screenshot(path); err != nil {
			return errorResult("screenshot", err), nil
		}
		return textResult("screenshot", fmt.Sprintf("Screenshot saved to %s", path)), nil
	})
}

func textResult(name, content string) *agent.ToolResult {
	return &agent.ToolResult{Name: name, Content: content}
}

func errorResult(name string, err error) *agent.ToolResult {
	return &agent.ToolResult{Name: name, Content: err.Error(), IsError: true}
}
