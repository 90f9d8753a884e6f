package schema

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Document is the JSON form of a set of definitions.
//
//	{
//	  "namespace": "NamespaceA",
//	  "structs": [{"name": "Vec", "fields": [{"name": "x", "type": "float"}]}],
//	  "tables": [{"name": "Monster", "fields": [
//	    {"name": "pos", "type": "struct", "ref": "Vec"},
//	    {"name": "hp", "type": "short", "default": 100}
//	  ]}],
//	  "root_type": "Monster",
//	  "file_identifier": "MONS"
//	}
type Document struct {
	Namespace      string      `json:"namespace,omitempty"`
	Structs        []StructDef `json:"structs,omitempty"`
	Tables         []TableDef  `json:"tables"`
	RootType       string      `json:"root_type,omitempty"`
	FileIdentifier string      `json:"file_identifier,omitempty"`
}

// ParseJSON decodes a Document. Numbers keep their literal text so 64-bit
// defaults survive; unknown keys are rejected.
func ParseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, NewSchemaError(ErrInvalidFormat, "", "", err)
	}
	if doc.FileIdentifier != "" && len(doc.FileIdentifier) != 4 {
		return nil, NewSchemaError(ErrInvalidFormat, "", "file_identifier",
			fmt.Errorf("identifier %q must be 4 bytes", doc.FileIdentifier))
	}
	return &doc, nil
}

// LoadFile reads and parses a descriptor file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return ParseJSON(data)
}
