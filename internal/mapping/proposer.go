package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrProposalServiceUnavailable is returned when the external classification
// call cannot be completed (network, auth, quota, or an undecodable
// response). It is surfaced to the caller as-is; there is no built-in retry.
var ErrProposalServiceUnavailable = errors.New("mapping proposal service unavailable")

// proposalSchema is the envelope contract of the classification service: a
// JSON array of field proposals. Individual entries are validated separately
// so one malformed entry never rejects its siblings.
const proposalSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"champ_pdf":       {"type": "string"},
			"type":            {"type": "string"},
			"mapping":         {"type": "string"},
			"valeur_possible": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

// proposalEntry is the wire shape of one proposed field mapping.
type proposalEntry struct {
	ChampPDF       string   `json:"champ_pdf"`
	Type           string   `json:"type"`
	Mapping        string   `json:"mapping"`
	ValeurPossible []string `json:"valeur_possible,omitempty"`
}

// ProposerConfig configures the classification client.
type ProposerConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Proposer wraps the external classification call that turns extracted
// document text into proposed field mappings.
type Proposer struct {
	cfg    ProposerConfig
	client *http.Client
	schema *jsonschema.Schema
	logger *slog.Logger
}

// NewProposer creates a classification client. The response schema is
// compiled once at construction.
func NewProposer(cfg ProposerConfig, logger *slog.Logger) (*Proposer, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("proposal.json", strings.NewReader(proposalSchema)); err != nil {
		return nil, fmt.Errorf("add proposal schema: %w", err)
	}
	schema, err := compiler.Compile("proposal.json")
	if err != nil {
		return nil, fmt.Errorf("compile proposal schema: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Proposer{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		schema: schema,
		logger: logger,
	}, nil
}

// Propose sends the extracted template text to the classification service and
// returns the validated field-mapping proposals. Empty input yields an empty
// list without calling out. Entries with an empty champ_pdf, a type outside
// the enum, or an empty mapping are dropped and logged, never surfaced as
// partial-success errors.
func (p *Proposer) Propose(ctx context.Context, extractedText string) ([]FieldMapping, error) {
	if strings.TrimSpace(extractedText) == "" {
		return []FieldMapping{}, nil
	}

	rid := uuid.New().String()
	start := time.Now()
	p.logger.Info("mapping.propose.start", "req_id", rid, "text_len", len(extractedText))

	raw, err := p.post(ctx, map[string]any{"text": extractedText})
	if err != nil {
		p.logger.Error("mapping.propose.transport_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%w: %v", ErrProposalServiceUnavailable, err)
	}

	var envelope any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		p.logger.Error("mapping.propose.decode_error", "req_id", rid, "error", err)
		return nil, fmt.Errorf("%w: undecodable response: %v", ErrProposalServiceUnavailable, err)
	}
	if err := p.schema.Validate(envelope); err != nil {
		p.logger.Error("mapping.propose.schema_error", "req_id", rid, "error", err)
		return nil, fmt.Errorf("%w: response does not match schema: %v", ErrProposalServiceUnavailable, err)
	}

	var entries []proposalEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: undecodable response: %v", ErrProposalServiceUnavailable, err)
	}

	proposals := make([]FieldMapping, 0, len(entries))
	dropped := 0
	for _, entry := range entries {
		m := FieldMapping{
			PDFFieldName: entry.ChampPDF,
			Kind:         Kind(entry.Type),
			TargetPath:   entry.Mapping,
			SampleValues: entry.ValeurPossible,
		}
		if err := m.Validate(); err != nil {
			dropped++
			p.logger.Warn("mapping.propose.entry_dropped",
				"req_id", rid, "champ_pdf", entry.ChampPDF, "reason", err)
			continue
		}
		proposals = append(proposals, m)
	}

	p.logger.Info("mapping.propose.done",
		"req_id", rid, "proposed", len(proposals), "dropped", dropped,
		"elapsed_ms", time.Since(start).Milliseconds())
	return proposals, nil
}

func (p *Proposer) post(ctx context.Context, body map[string]any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(p.cfg.BaseURL, "/")+"/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("classification service returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
