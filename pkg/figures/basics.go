package figures

import (
	"github.com/matzehuels/treeviz/pkg/msprime"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

const (
	treeMutRate = 1e-5
	treeMutSeed = 228
)

// BasicsTree loads the precomputed basics example and drops its first site.
func BasicsTree(path string) (*tskit.TreeSequence, error) {
	ts, err := tskit.Load(path)
	if err != nil {
		return nil, err
	}
	return ts.DeleteSites(0)
}

// TreeMut is BasicsTree with extra mutations at rate 1e-5, seed 228.
func TreeMut(path string) (*tskit.TreeSequence, error) {
	ts, err := BasicsTree(path)
	if err != nil {
		return nil, err
	}
	return msprime.SimMutations(ts, treeMutRate, msprime.WithMutationSeed(treeMutSeed))
}
