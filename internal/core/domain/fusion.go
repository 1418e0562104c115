package domain

import (
	"fmt"
	"sort"
)

// DefaultRankConstant is the default RRF rank constant.
// Lower values (1-20) give more weight to top-ranked results;
// higher values (60-100) distribute weight more evenly.
const DefaultRankConstant = 60

// absentRank is the tie-break sentinel for a product missing from one
// list. It only affects rank-sum comparisons, never the fused score.
const absentRank = 1 << 30

// FuseRRF merges the lexical and semantic ranked lists using Reciprocal
// Rank Fusion:
//
//	score(doc) = Σ 1/(rankConstant + rank(doc))
//
// summed over the lists where the document appears (ranks are 1-based).
// Every product present in either input appears exactly once in the
// output. Ordering is fused score descending, then rank-sum ascending,
// then product ID ascending, making the result deterministic for a
// given pair of inputs and constant.
//
// FuseRRF is a pure function: it does not modify its inputs and has no
// side effects. It is symmetric in the two lists.
func FuseRRF(lexical, semantic []RankedResult, rankConstant int) ([]FusedResult, error) {
	if rankConstant <= 0 {
		return nil, fmt.Errorf("%w: rrf rank constant must be positive, got %d",
			ErrInvalidConfig, rankConstant)
	}

	fused := make(map[string]*FusedResult, len(lexical)+len(semantic))

	for i := range lexical {
		rank := i + 1
		f := fused[lexical[i].ProductID]
		if f == nil {
			f = &FusedResult{ProductID: lexical[i].ProductID}
			fused[lexical[i].ProductID] = f
		}
		f.LexicalRank = rank
		f.Score += 1.0 / float64(rankConstant+rank)
	}

	for i := range semantic {
		rank := i + 1
		f := fused[semantic[i].ProductID]
		if f == nil {
			f = &FusedResult{ProductID: semantic[i].ProductID}
			fused[semantic[i].ProductID] = f
		}
		f.SemanticRank = rank
		f.Score += 1.0 / float64(rankConstant+rank)
	}

	results := make([]FusedResult, 0, len(fused))
	for _, f := range fused {
		results = append(results, *f)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		si, sj := rankSum(results[i]), rankSum(results[j])
		if si != sj {
			return si < sj
		}
		return results[i].ProductID < results[j].ProductID
	})

	return results, nil
}

// rankSum sums a result's per-list ranks, treating absence from a list
// as an effectively infinite position.
func rankSum(f FusedResult) int {
	sum := 0
	if f.LexicalRank > 0 {
		sum += f.LexicalRank
	} else {
		sum += absentRank
	}
	if f.SemanticRank > 0 {
		sum += f.SemanticRank
	} else {
		sum += absentRank
	}
	return sum
}
