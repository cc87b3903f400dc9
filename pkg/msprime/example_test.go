package msprime_test

import (
	"fmt"

	"github.com/matzehuels/treeviz/pkg/msprime"
)

func ExampleSimAncestry() {
	ts, err := msprime.SimAncestry(
		msprime.WithSamples(3),
		msprime.WithPopulationSize(100),
		msprime.WithRandomSeed(1),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(ts.NumSamples(), ts.NumTrees(), ts.NumNodes())
	// Output: 6 1 11
}

func ExampleDemography() {
	d := msprime.NewDemography()
	a := d.AddPopulation("A", 1000, 0)
	d.AddInstantaneousBottleneck(100, 1000, a)
	fmt.Println(d.Validate() == nil, d.Lookup("A"))
	// Output: true 0
}
