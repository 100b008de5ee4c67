// Package remote is the client side of the schema-suggestion and
// data-generation service.
package remote

import (
	"context"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/schema"
)

// ============================================================================
// REMOTE SERVICE — The only component that talks to the network
// ============================================================================
// Contract:
//   POST /suggest-schema?description=…      → {fields:[{name,description}], global_reasoning}
//   POST /suggest-schema-web?description=…  → same shape, no AI dependency
//   POST /generate {description,country,rows,fields} → [rows…] or {rows:[…]}
//
// Any non-2xx status, transport failure or undecodable body is a CallError.
// ============================================================================

// DefaultRows is the number of rows requested per generation.
const DefaultRows = 20

// Source selects which suggestion endpoint is used.
type Source string

const (
	SourceAI  Source = "ai"
	SourceWeb Source = "web"
)

// Path returns the endpoint path for the source.
func (s Source) Path() string {
	if s == SourceWeb {
		return "/suggest-schema-web"
	}
	return "/suggest-schema"
}

// Op names the operation for logs, metrics and errors.
func (s Source) Op() string {
	if s == SourceWeb {
		return OpSuggestWeb
	}
	return OpSuggest
}

// Alternate returns the other suggestion source.
func (s Source) Alternate() Source {
	if s == SourceWeb {
		return SourceAI
	}
	return SourceWeb
}

// Label is the user-facing name of the source.
func (s Source) Label() string {
	if s == SourceWeb {
		return "web suggestion"
	}
	return "AI suggestion"
}

// Operation names.
const (
	OpSuggest    = "suggest-schema"
	OpSuggestWeb = "suggest-schema-web"
	OpGenerate   = "generate"
)

// Service is the remote collaborator used by the wizard.
type Service interface {
	// SuggestSchema proposes fields for description.
	SuggestSchema(ctx context.Context, source Source, description string) (*Suggestion, error)
	// Generate synthesizes rows for the request.
	Generate(ctx context.Context, req GenerateRequest) (engine.Dataset, error)
}

// Suggestion is a proposed schema.
type Suggestion struct {
	Fields    []schema.Field `json:"fields"`
	Reasoning string         `json:"global_reasoning"`
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Description string         `json:"description"`
	Country     string         `json:"country"`
	Rows        int            `json:"rows"`
	Fields      []schema.Field `json:"fields"`
}
