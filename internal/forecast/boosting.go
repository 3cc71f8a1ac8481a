package forecast

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BoostingOptions configures the gradient boosted stump ensemble.
type BoostingOptions struct {
	Estimators   int
	LearningRate float64

	// Subsample is the fraction of observations drawn, without replacement,
	// to fit each stage. Values >= 1 use every observation.
	Subsample float64
	Seed      int64
}

func NewDefaultBoostingOptions() *BoostingOptions {
	return &BoostingOptions{
		Estimators:   100,
		LearningRate: 0.1,
		Subsample:    1.0,
		Seed:         42,
	}
}

// stump is a depth one regression tree. Inputs at or below threshold take the
// left value.
type stump struct {
	split     bool
	threshold float64
	left      float64
	right     float64
}

func (s stump) predict(x float64) float64 {
	if !s.split || x <= s.threshold {
		return s.left
	}
	return s.right
}

// BoostedStumps is a least squares gradient boosting regressor over a single
// feature whose weak learners are depth one trees.
type BoostedStumps struct {
	opt    *BoostingOptions
	init   float64
	stumps []stump
}

func NewBoostedStumps(opt *BoostingOptions) *BoostedStumps {
	if opt == nil {
		opt = NewDefaultBoostingOptions()
	}
	return &BoostedStumps{opt: opt}
}

// Fit trains the ensemble on (x[i], y[i]) pairs.
func (b *BoostedStumps) Fit(x, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return ErrInsufficientData
	}

	rng := rand.New(rand.NewSource(b.opt.Seed))

	b.init = stat.Mean(y, nil)
	b.stumps = make([]stump, 0, b.opt.Estimators)

	fitted := make([]float64, len(y))
	floats.AddConst(b.init, fitted)
	residuals := make([]float64, len(y))

	for i := 0; i < b.opt.Estimators; i++ {
		floats.SubTo(residuals, y, fitted)

		rows := b.sampleRows(rng, len(y))
		s := fitStump(x, residuals, rows)
		b.stumps = append(b.stumps, s)

		for j := range fitted {
			fitted[j] += b.opt.LearningRate * s.predict(x[j])
		}
	}
	return nil
}

// Predict evaluates the ensemble at x.
func (b *BoostedStumps) Predict(x float64) float64 {
	res := b.init
	for _, s := range b.stumps {
		res += b.opt.LearningRate * s.predict(x)
	}
	return res
}

func (b *BoostedStumps) sampleRows(rng *rand.Rand, n int) []int {
	if b.opt.Subsample >= 1.0 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	size := int(b.opt.Subsample * float64(n))
	if size < 1 {
		size = 1
	}
	rows := rng.Perm(n)[:size]
	sort.Ints(rows)
	return rows
}

// fitStump finds the threshold that maximises the reduction in squared error
// of target over the given rows. Candidate thresholds are the midpoints between
// consecutive distinct inputs, scanned in ascending order, and only a strictly
// better split replaces the current best.
func fitStump(x, target []float64, rows []int) stump {
	order := append([]int(nil), rows...)
	sort.SliceStable(order, func(i, j int) bool {
		return x[order[i]] < x[order[j]]
	})

	n := len(order)
	total := 0.0
	for _, r := range order {
		total += target[r]
	}
	best := stump{left: total / float64(n)}

	bestGain := 0.0
	leftSum := 0.0
	for i := 0; i < n-1; i++ {
		leftSum += target[order[i]]
		if x[order[i]] == x[order[i+1]] {
			continue
		}
		nl := float64(i + 1)
		nr := float64(n - i - 1)
		ml := leftSum / nl
		mr := (total - leftSum) / nr
		gain := nl * nr / float64(n) * (ml - mr) * (ml - mr)
		if gain > bestGain {
			bestGain = gain
			best = stump{
				split:     true,
				threshold: (x[order[i]] + x[order[i+1]]) / 2,
				left:      ml,
				right:     mr,
			}
		}
	}
	return best
}

func boostingForecast(series []float64, horizon int, opt *BoostingOptions) ([]float64, error) {
	x := make([]float64, len(series))
	for i := range x {
		x[i] = float64(i)
	}

	model := NewBoostedStumps(opt)
	if err := model.Fit(x, series); err != nil {
		return nil, err
	}

	preds := make([]float64, horizon)
	for i := range preds {
		preds[i] = model.Predict(float64(len(series) + i))
	}
	return preds, nil
}
