// Package llms provides a unified text generation interface over the
// language model providers used by the agents.
//
// Each subpackage wraps one provider SDK and maps the generic Message and
// CallOptions types onto it. Stop words must be honored by every provider,
// the research agent relies on them to end a reasoning step.
package llms
