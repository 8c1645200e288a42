// Package encoding renders command output in text, Markdown, JSON, YAML or TOML.
package encoding
