package api

import (
	"strings"

	"github.com/hazyhaar/nerprep/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the nerprep MCP tools on the server. Every
// tool runs behind request-id and logging middleware.
func RegisterMCPTools(srv *server.MCPServer, s *Service) {
	mw := kit.Chain(kit.RequestID(), kit.Logging(s.Logger))

	kit.RegisterMCPTool(srv, mcp.NewTool("clean_text",
		mcp.WithDescription("Clean a text with the configured pipeline (emojis, URLs, mentions, numbers, special characters, accents, stopwords, lemmas)."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to clean")),
		mcp.WithString("config", mcp.Description("Path to a YAML or JSON cleaner config; the server default when omitted")),
		mcp.WithBoolean("tokens", mcp.Description("Return tokens instead of a string")),
	), mw(cleanTextEndpoint(s)), decodeCleanText)

	kit.RegisterMCPTool(srv, mcp.NewTool("reconstruct_spans",
		mcp.WithDescription("Group IOB-tagged tokens into entities and locate each one in the sentence."),
		mcp.WithString("tokens", mcp.Required(), mcp.Description("Space-separated tokens")),
		mcp.WithString("tags", mcp.Required(), mcp.Description("Space-separated IOB tags, one per token")),
		mcp.WithString("sentence", mcp.Description("Raw sentence; the tokens joined by spaces when omitted")),
	), mw(reconstructSpansEndpoint()), decodeReconstruct)

	kit.RegisterMCPTool(srv, mcp.NewTool("list_converters",
		mcp.WithDescription("List the dataset converters with their default input, output file and license."),
	), mw(listConvertersEndpoint()), func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("check_table",
		mcp.WithDescription("Verify that every span of a produced entity table points at its entity text."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the entity table")),
	), mw(checkTableEndpoint(s)), decodeCheckTable)
}

func decodeCleanText(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	text, _ := args["text"].(string)
	path, _ := args["config"].(string)
	tokens, _ := args["tokens"].(bool)
	return &kit.MCPDecodeResult{Request: &cleanTextReq{Text: text, ConfigPath: path, Tokens: tokens}}, nil
}

func decodeReconstruct(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	tokens, _ := args["tokens"].(string)
	tags, _ := args["tags"].(string)
	sentence, _ := args["sentence"].(string)
	return &kit.MCPDecodeResult{Request: &reconstructReq{
		Sentence: sentence,
		Tokens:   strings.Fields(tokens),
		Tags:     strings.Fields(tags),
	}}, nil
}

func decodeCheckTable(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	return &kit.MCPDecodeResult{Request: &checkTableReq{Path: strings.TrimSpace(path)}}, nil
}
