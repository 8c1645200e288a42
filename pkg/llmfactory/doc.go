// Package llmfactory creates provider models from configuration and maps agents to models.
package llmfactory
