package acoustid

import "sort"

// Candidate pairs a release ID with the score of the match it came from.
type Candidate struct {
	ReleaseID    string
	ReleaseTitle string
	Score        float64
}

// ReleaseCandidates flattens lookup results into an ordered list of
// release candidates. Results below minScore are discarded, the remainder
// is ordered best score first, and duplicate release IDs keep their first
// (highest-scoring) occurrence. Ties preserve response order, which keeps
// repeated runs deterministic.
func ReleaseCandidates(results []Result, minScore float64) []Candidate {
	ordered := make([]Result, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	seen := make(map[string]struct{})
	var candidates []Candidate
	for _, result := range ordered {
		if result.Score < minScore {
			continue
		}
		for _, recording := range result.Recordings {
			for _, release := range recording.Releases {
				if release.ID == "" {
					continue
				}
				if _, dup := seen[release.ID]; dup {
					continue
				}
				seen[release.ID] = struct{}{}
				candidates = append(candidates, Candidate{
					ReleaseID:    release.ID,
					ReleaseTitle: release.Title,
					Score:        result.Score,
				})
			}
		}
	}
	return candidates
}
