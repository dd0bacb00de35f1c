package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/server"
)

const (
	// CommandsURI is the URI of the command catalog resource.
	CommandsURI = "gworkspace://commands"

	// SettingsURI is the URI of the extension settings resource.
	SettingsURI = "gworkspace://settings"
)

// CommandInfo describes one advertised command.
type CommandInfo struct {
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Service     string      `json:"service"`
	ReadOnly    bool        `json:"read_only"`
	Params      []ParamInfo `json:"params"`
}

// ParamInfo describes one argument of a command.
type ParamInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Settings describes how the extension reaches Google.
type Settings struct {
	Timezone       string `json:"timezone"`
	AttachmentsDir string `json:"attachments_dir"`
	Credentials    string `json:"credentials"`
	Commands       int    `json:"commands"`
}

// RegisterResources registers the catalog and settings resources.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return fmt.Errorf("MCP server and server context are required")
	}

	commands := mcp.NewResource(
		CommandsURI,
		"Google Commands",
		mcp.WithResourceDescription("Commands advertised by the Google extension and their arguments"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(commands, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, Catalog(sc.Extension()))
	})

	settings := mcp.NewResource(
		SettingsURI,
		"Extension Settings",
		mcp.WithResourceDescription("Timezone, attachment directory and credential mode of the Google extension"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(settings, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, CurrentSettings(sc.Extension()))
	})

	return nil
}

// Catalog lists the commands ext advertises, in table order.
func Catalog(ext *extension.Extension) []CommandInfo {
	infos := make([]CommandInfo, 0, len(ext.Commands()))
	for _, name := range ext.Commands() {
		cmd, ok := ext.Command(name)
		if !ok {
			continue
		}
		params := make([]ParamInfo, 0, len(cmd.Params))
		for _, p := range cmd.Params {
			params = append(params, ParamInfo{
				Name:        p.Name,
				Type:        string(p.Type),
				Required:    p.Required,
				Description: p.Description,
			})
		}
		infos = append(infos, CommandInfo{
			Name:        cmd.Name,
			Slug:        cmd.Slug(),
			Description: cmd.Description,
			Service:     cmd.Service,
			ReadOnly:    cmd.ReadOnly(),
			Params:      params,
		})
	}
	return infos
}

// CurrentSettings reports the settings of ext. No token is included.
func CurrentSettings(ext *extension.Extension) Settings {
	credentials := "none"
	switch {
	case ext.Authenticator() != nil:
		credentials = "authenticator"
	case ext.AccessToken() != "":
		credentials = "access_token"
	}
	return Settings{
		Timezone:       ext.Timezone(),
		AttachmentsDir: ext.AttachmentsDir(),
		Credentials:    credentials,
		Commands:       len(ext.Commands()),
	}
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
