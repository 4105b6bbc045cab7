package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/mkd-neo4j/seraph/internal/statement"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a statement file:
//
//	statements:
//	  - query: CREATE (:Person {name: $name})
//	    params:
//	      name: Alice
type File struct {
	Statements []FileStatement `yaml:"statements"`
}

type FileStatement struct {
	Query  string         `yaml:"query"`
	Params map[string]any `yaml:"params,omitempty"`
}

// LoadStatements reads a statement file, keeping the order of the file.
func LoadStatements(r io.Reader) ([]statement.Statement, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse statement file: %w", err)
	}

	stmts := make([]statement.Statement, 0, len(f.Statements))
	for i, entry := range f.Statements {
		if strings.TrimSpace(entry.Query) == "" {
			return nil, fmt.Errorf("statement %d: query is required", i)
		}
		stmt, err := statement.New(entry.Query, entry.Params)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
