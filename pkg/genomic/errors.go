package genomic

import "errors"

var (
	// ErrConfiguration reports an invalid mutation rate, strategy bounds,
	// crossover method parameter, or a missing random source. It is raised
	// before any traversal starts.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrContract reports a genome whose declared SizeHint does not match
	// the fields actually visited during a traversal, or two genomes of
	// mismatched shape paired for crossover.
	ErrContract = errors.New("genome contract violation")
)
