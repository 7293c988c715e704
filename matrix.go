package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// inputFileName is read from inside the assess directory.
const inputFileName = "participant_matrix.json"

// Load and shape errors.
var (
	errInvalidDocument      = errors.New("invalid participant matrix document")
	errEmptyMatrix          = errors.New("participant matrix is empty")
	errNotSquare            = errors.New("matrix values are not square")
	errDimensionMismatch    = errors.New("matrix size does not match participant count")
	errDuplicateParticipant = errors.New("duplicate participant")
	errEmptyParticipant     = errors.New("empty participant name")
)

// matrixDocument mirrors participant_matrix.json.
type matrixDocument struct {
	Participants []string     `json:"participants"`
	Matrix       matrixValues `json:"matrix"`
}

type matrixValues struct {
	Values [][]float64 `json:"values"`
}

// documentSchema is the structural contract of participant_matrix.json.
var documentSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"participants", "matrix"},
	Properties: map[string]*jsonschema.Schema{
		"participants": {
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string"},
		},
		"matrix": {
			Type:     "object",
			Required: []string{"values"},
			Properties: map[string]*jsonschema.Schema{
				"values": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type:  "array",
						Items: &jsonschema.Schema{Type: "number"},
					},
				},
			},
		},
	},
}

// participantMatrix is a validated N x N matrix with one label per row.
type participantMatrix struct {
	Participants []string
	Values       *mat.Dense
}

// loadMatrix reads <dir>/participant_matrix.json.
func loadMatrix(dir string) (participantMatrix, error) {
	path := filepath.Join(dir, inputFileName)

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
		return participantMatrix{}, fmt.Errorf("load %s: %w", path, err)
	}
	if err := validateDocument(k.Raw()); err != nil {
		return participantMatrix{}, fmt.Errorf("%s: %w", path, err)
	}

	var doc matrixDocument
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return participantMatrix{}, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	m, err := newParticipantMatrix(doc.Participants, doc.Matrix.Values)
	if err != nil {
		return participantMatrix{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// validateDocument checks a decoded JSON value against documentSchema.
func validateDocument(raw map[string]any) error {
	resolved, err := documentSchema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve schema: %w", err)
	}
	if err := resolved.Validate(raw); err != nil {
		return fmt.Errorf("%w: %v", errInvalidDocument, err)
	}
	return nil
}

// newParticipantMatrix validates shape and labels and packs values densely.
func newParticipantMatrix(participants []string, values [][]float64) (participantMatrix, error) {
	n := len(participants)
	if n == 0 || len(values) == 0 {
		return participantMatrix{}, errEmptyMatrix
	}

	seen := make(map[string]int, n)
	for i, p := range participants {
		if strings.TrimSpace(p) == "" {
			return participantMatrix{}, fmt.Errorf("%w at index %d", errEmptyParticipant, i)
		}
		if j, dup := seen[p]; dup {
			return participantMatrix{}, fmt.Errorf("%w: %q at index %d and %d", errDuplicateParticipant, p, j, i)
		}
		seen[p] = i
	}

	rows := len(values)
	for i, row := range values {
		if len(row) != rows {
			return participantMatrix{}, fmt.Errorf("%w: row %d has %d values, want %d", errNotSquare, i, len(row), rows)
		}
	}
	if rows != n {
		return participantMatrix{}, fmt.Errorf("%w: %d x %d values for %d participants", errDimensionMismatch, rows, rows, n)
	}

	data := make([]float64, 0, n*n)
	for _, row := range values {
		data = append(data, row...)
	}
	return participantMatrix{
		Participants: append([]string(nil), participants...),
		Values:       mat.NewDense(n, n, data),
	}, nil
}

func (m participantMatrix) size() int { return len(m.Participants) }

// valueRange returns the smallest and largest cell value.
func (m participantMatrix) valueRange() (lo, hi float64) {
	data := m.Values.RawMatrix().Data
	return floats.Min(data), floats.Max(data)
}
