package matching

import (
	"sort"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
)

// scoreTie is the score difference under which two qualified matches are
// considered tied and ordered by funding speed instead.
const scoreTie = 0.01

// MatchAll runs the evaluator over every product in the catalog and
// partitions the results into the three buckets. Qualified products come
// back best-first: descending score, ties broken by ascending minimum
// speed-days (fastest first).
//
// Structurally invalid product records are excluded from the match and
// returned as errors so the caller can log and count them; a single bad
// catalog row must never abort the whole match. An empty catalog yields
// empty buckets.
func MatchAll(profile domain.Profile, products []domain.Product) (domain.Buckets, []error) {
	buckets := domain.Buckets{
		Qualified:    []domain.Product{},
		NeedMoreInfo: []domain.NeedInfoMatch{},
		NotQualified: []domain.NotQualifiedMatch{},
	}

	var invalid []error
	var qualified []domain.MatchResult

	for _, product := range products {
		if err := product.Validate(); err != nil {
			invalid = append(invalid, err)
			continue
		}

		result := Evaluate(profile, product)
		switch result.Classification {
		case domain.Qualified:
			qualified = append(qualified, result)
		case domain.NeedMoreInfo:
			buckets.NeedMoreInfo = append(buckets.NeedMoreInfo, domain.NeedInfoMatch{
				Product:      result.Product,
				Reasons:      result.Reasons,
				Improvements: result.Improvements,
			})
		case domain.NotQualified:
			buckets.NotQualified = append(buckets.NotQualified, domain.NotQualifiedMatch{
				Product: result.Product,
				Reasons: result.Reasons,
			})
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		si, sj := qualified[i].Score, qualified[j].Score
		if diff := si - sj; diff <= scoreTie && diff >= -scoreTie {
			return qualified[i].Product.SpeedDays.Min < qualified[j].Product.SpeedDays.Min
		}
		return si > sj
	})

	for _, result := range qualified {
		buckets.Qualified = append(buckets.Qualified, result.Product)
	}

	return buckets, invalid
}
