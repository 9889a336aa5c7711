//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cnf

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
)

// WriteDimacs writes the clause set in DIMACS format, each clause
// terminated by 0 as SAT back-ends expect.
func (c *Cnf) WriteDimacs(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", c.maxVar, len(c.clauses)); err != nil {
		return err
	}
	for _, clause := range c.clauses {
		for _, lit := range clause {
			if _, err := fmt.Fprintf(w, "%d ", lit); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "0"); err != nil {
			return err
		}
	}
	return nil
}

// Artifact is the serializable part of a CNF materialization, stored
// s2-compressed for reuse by later runs. The expression back-reference
// and the node mappings are not persisted; they only make sense inside
// the arena that produced them.
type Artifact struct {
	Vars           []int
	Clauses        [][]int
	MaxVar         int
	FormulaLiteral int
}

// Artifact extracts the persistable view of the CNF.
func (c *Cnf) Artifact() *Artifact {
	return &Artifact{
		Vars:           c.vars,
		Clauses:        c.clauses,
		MaxVar:         c.maxVar,
		FormulaLiteral: c.formulaLiteral,
	}
}

// WriteArtifact gob-encodes the artifact through an s2 compressor.
func WriteArtifact(w io.Writer, a *Artifact) error {
	zw := s2.NewWriter(w)
	if err := gob.NewEncoder(zw).Encode(a); err != nil {
		return err
	}
	return zw.Close()
}

// ReadArtifact decodes an artifact written by WriteArtifact.
func ReadArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := gob.NewDecoder(s2.NewReader(r)).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}
