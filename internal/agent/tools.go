package agent

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool names offered to the model.
const (
	ToolNavigate       = "navigate_to_url"
	ToolFindAndClick   = "find_and_click"
	ToolFindAndFill    = "find_and_fill"
	ToolTypeString     = "type_string"
	ToolPressKey       = "press_key"
	ToolGithubUsername = "github_username"
	ToolGithubPassword = "github_password"
)

func function(name, description string, params jsonschema.Definition) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

func object(required []string, props map[string]jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: props,
		Required:   required,
	}
}

func str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

// Definitions lists the tools in a fixed order.
func Definitions() []openai.Tool {
	none := object(nil, map[string]jsonschema.Definition{})
	return []openai.Tool{
		function(ToolNavigate,
			"Open the browser if needed and navigate to a URL.",
			object([]string{"url"}, map[string]jsonschema.Definition{
				"url": str("The URL to navigate to."),
			})),
		function(ToolFindAndClick,
			"Find a clickable element on the page with the given text and click it.",
			object([]string{"text"}, map[string]jsonschema.Definition{
				"text": str("The text that the clickable element contains."),
			})),
		function(ToolFindAndFill,
			"Find an input field by its label, placeholder or name and fill it with the given text.",
			object([]string{"field", "text"}, map[string]jsonschema.Definition{
				"field": str("The label, placeholder or name of the field."),
				"text":  str("The text to fill in."),
			})),
		function(ToolTypeString,
			"Type a string into the element that has focus.",
			object([]string{"string"}, map[string]jsonschema.Definition{
				"string": str("The string to type."),
			})),
		function(ToolPressKey,
			"Press one keyboard key, for example Enter or Tab.",
			object([]string{"key"}, map[string]jsonschema.Definition{
				"key": str("The key to press."),
			})),
		function(ToolGithubUsername, "Return the GitHub username to log in with.", none),
		function(ToolGithubPassword, "Return the GitHub password to log in with.", none),
	}
}
