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

// Package dd declares the contract of the decision-diagram engine the
// core consumes. The engine itself (unique tables, caches, garbage
// collection, reordering) lives outside this module; everything here is
// an interface over opaque, reference-counted handles.
//
// Ownership follows one rule throughout: a function that returns a BDD
// transfers one reference to the caller; a function that accepts a BDD
// borrows it. Containers release every reference they hold on
// destruction.
package dd

// A BDD is an opaque handle to a boolean function owned by the engine.
// Handles are comparable: two handles are == exactly when they denote
// the same engine node.
type BDD interface{}

// An ADD is an opaque handle to an algebraic decision diagram.
type ADD interface{}

// Manager is the boolean side of the engine. All returned BDDs are
// referenced for the caller.
type Manager interface {
	// True and False return referenced constant diagrams.
	True() BDD
	False() BDD
	IsTrue(f BDD) bool
	IsFalse(f BDD) bool

	// Ref returns f with one extra reference; Deref gives one back.
	// RecursiveDeref releases f and its descendants' external counts.
	Ref(f BDD) BDD
	Deref(f BDD)
	RecursiveDeref(f BDD)

	Not(f BDD) BDD
	And(f, g BDD) BDD
	Or(f, g BDD) BDD
	Xor(f, g BDD) BDD
	Xnor(f, g BDD) BDD
	Imply(f, g BDD) BDD
	ITE(f, g, h BDD) BDD

	// Exists and Forall abstract the variables of cube from f.
	// AndAbstract conjoins and abstracts in one sweep.
	Exists(f, cube BDD) BDD
	Forall(f, cube BDD) BDD
	AndAbstract(f, g, cube BDD) BDD

	// Support returns the cube of variables f depends on.
	Support(f BDD) BDD

	// Cube arithmetic: difference, intersection and union of positive
	// variable cubes.
	CubeDiff(a, b BDD) BDD
	CubeIntersection(a, b BDD) BDD
	CubeUnion(a, b BDD) BDD

	// Size returns the DAG node count of f; CountMinterms the number of
	// satisfying assignments over nvars variables.
	Size(f BDD) int
	CountMinterms(f BDD, nvars int) float64

	// LowestIndex returns the smallest variable index in the support of
	// f, or -1 for constants.
	LowestIndex(f BDD) int

	// Permute rewrites f replacing every variable i by permutation[i];
	// SwapVariables exchanges the x and y variable vectors.
	Permute(f BDD, permutation []int) BDD
	SwapVariables(f BDD, x, y []BDD) BDD

	// NewVarWithIndex creates (or retrieves) the projection function of
	// the variable with the given index; NewVarAtLevel creates a fresh
	// variable at the given order level.
	NewVarWithIndex(index int) BDD
	NewVarAtLevel(level int) BDD
	VarCount() int
}

// Arith is the ADD side used by counting image computation.
type Arith interface {
	// ToADD converts a BDD to its 0/1 ADD; ToBDDStrictThreshold keeps
	// the inputs whose leaf value is strictly greater than bound.
	ToADD(f BDD) ADD
	ToBDDStrictThreshold(a ADD, bound int64) BDD

	// Times multiplies pointwise; ExistAbstract sums out the variables
	// of cube.
	Times(a, b ADD) ADD
	ExistAbstract(a ADD, cube BDD) ADD

	DerefADD(a ADD)
	SizeADD(a ADD) int
}

// Minimizer groups the don't-care minimization entry points.
type Minimizer interface {
	// Restrict is the Coudert-Madre generalized cofactor; Constrain its
	// sibling.
	Restrict(f, c BDD) BDD
	Constrain(f, c BDD) BDD

	// Leq reports whether f implies g.
	Leq(f, g BDD) bool

	MakePrime(cube, f BDD) BDD
	LargestCube(f BDD) BDD
	FindEssential(f BDD) BDD
}
