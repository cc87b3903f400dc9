package tskit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/treeviz/pkg/errors"
)

const (
	// FormatName marks files written by [TreeSequence.WriteJSON].
	FormatName    = "treeviz.trees"
	FormatVersion = 1
)

type file struct {
	Format         string       `json:"format"`
	Version        int          `json:"version"`
	SequenceLength float64      `json:"sequence_length"`
	Nodes          []fileNode   `json:"nodes"`
	Edges          []Edge       `json:"edges"`
	Sites          []Site       `json:"sites,omitempty"`
	Mutations      []Mutation   `json:"mutations,omitempty"`
	Populations    []Population `json:"populations,omitempty"`
}

// fileNode lets population and individual default to Null when absent.
type fileNode struct {
	Flags      uint32  `json:"flags"`
	Time       float64 `json:"time"`
	Population *int    `json:"population,omitempty"`
	Individual *int    `json:"individual,omitempty"`
}

// ReadJSON decodes a tree sequence from r.
//
// The input must be a JSON object of the form
//
//	{
//	  "format": "treeviz.trees",
//	  "version": 1,
//	  "sequence_length": 1000,
//	  "nodes": [{"flags": 1, "time": 0}, ...],
//	  "edges": [{"left": 0, "right": 1000, "parent": 4, "child": 0}, ...],
//	  "sites": [{"position": 120, "ancestral_state": "A"}],
//	  "mutations": [{"site": 0, "node": 5, "derived_state": "T", "parent": -1, "time": 1500}]
//	}
//
// The tables are sorted and validated as by [TableCollection.TreeSequence].
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*TreeSequence, error) {
	var data file
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Format != FormatName {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected format %q (want %q)", data.Format, FormatName)
	}
	if data.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported %s version %d", FormatName, data.Version)
	}

	tc := NewTableCollection(data.SequenceLength)
	for _, n := range data.Nodes {
		node := Node{Flags: n.Flags, Time: n.Time, Population: Null, Individual: Null}
		if n.Population != nil {
			node.Population = *n.Population
		}
		if n.Individual != nil {
			node.Individual = *n.Individual
		}
		tc.Nodes = append(tc.Nodes, node)
	}
	tc.Edges = data.Edges
	tc.Sites = data.Sites
	tc.Mutations = data.Mutations
	tc.Populations = data.Populations
	return tc.TreeSequence()
}

// Load reads the tree sequence file at path.
func Load(path string) (*TreeSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ts, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ts, nil
}

// WriteJSON encodes the tree sequence as indented JSON. The output can be
// read back with [ReadJSON].
func (ts *TreeSequence) WriteJSON(w io.Writer) error {
	out := file{
		Format:         FormatName,
		Version:        FormatVersion,
		SequenceLength: ts.tables.SequenceLength,
		Nodes:          make([]fileNode, len(ts.tables.Nodes)),
		Edges:          ts.tables.Edges,
		Sites:          ts.tables.Sites,
		Mutations:      ts.tables.Mutations,
		Populations:    ts.tables.Populations,
	}
	for i, n := range ts.tables.Nodes {
		fn := fileNode{Flags: n.Flags, Time: n.Time}
		if n.Population != Null {
			p := n.Population
			fn.Population = &p
		}
		if n.Individual != Null {
			ind := n.Individual
			fn.Individual = &ind
		}
		out.Nodes[i] = fn
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Dump writes the tree sequence to a file at path.
func (ts *TreeSequence) Dump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := ts.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
