// Package orchestrator runs the research, summary and email agents in sequence.
package orchestrator
