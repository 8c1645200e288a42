// Package agents implements the pipeline agents: a ReAct agent that reasons with tools
// and prompt chains that send a single formatted prompt to the model.
package agents
