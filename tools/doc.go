// Package tools defines the Tool interface used by the research agent.
// Each tool takes a plain text input and returns an observation string.
package tools
