// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports the complete conversation; options are ignored.
type JSONExporter struct{}

func NewJSONExporter(*Options) *JSONExporter { return &JSONExporter{} }

func (e *JSONExporter) Export(conv Conversation) ([]byte, error) {
	if len(conv.Messages) == 0 {
		return nil, ErrEmpty
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (e *JSONExporter) FileExtension() string { return ".json" }

func (e *JSONExporter) MimeType() string { return "application/json" }

// =============================================================================
// YAML EXPORTER
// =============================================================================

// YAMLExporter exports the same shape as JSONExporter.
type YAMLExporter struct{}

func NewYAMLExporter(*Options) *YAMLExporter { return &YAMLExporter{} }

func (e *YAMLExporter) Export(conv Conversation) ([]byte, error) {
	if len(conv.Messages) == 0 {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(conv); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *YAMLExporter) FileExtension() string { return ".yaml" }

func (e *YAMLExporter) MimeType() string { return "application/yaml" }
