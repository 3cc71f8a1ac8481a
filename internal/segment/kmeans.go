// Package segment groups customers with seeded k-means over standardised
// features.
package segment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoObservations = errors.New("no observations to cluster")
	ErrInvalidK       = errors.New("k must be between 1 and the number of observations")
	ErrRaggedFeatures = errors.New("observations have different feature counts")
)

type KMeansOptions struct {
	Restarts int
	MaxIter  int
	Tol      float64
	Seed     int64
}

func NewDefaultKMeansOptions() *KMeansOptions {
	return &KMeansOptions{
		Restarts: 10,
		MaxIter:  300,
		Tol:      1e-4,
		Seed:     42,
	}
}

// Standardize centres each feature column on zero and scales it to unit
// population variance. Constant columns are only centred.
func Standardize(obs [][]float64) ([][]float64, error) {
	if len(obs) == 0 {
		return nil, ErrNoObservations
	}
	nFeat := len(obs[0])
	for _, row := range obs {
		if len(row) != nFeat {
			return nil, ErrRaggedFeatures
		}
	}

	out := make([][]float64, len(obs))
	for i := range out {
		out[i] = make([]float64, nFeat)
	}

	col := make([]float64, len(obs))
	for j := 0; j < nFeat; j++ {
		for i, row := range obs {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for i := range obs {
			out[i][j] = (col[i] - mean) / std
		}
	}
	return out, nil
}

// KMeans assigns each observation to one of k clusters. The best of several
// k-means++ seeded runs, by inertia, is kept. Labels are numbered in order of
// first appearance so repeated calls on the same input agree exactly.
func KMeans(obs [][]float64, k int, opt *KMeansOptions) ([]int, error) {
	if opt == nil {
		opt = NewDefaultKMeansOptions()
	}
	if len(obs) == 0 {
		return nil, ErrNoObservations
	}
	if k < 1 || k > len(obs) {
		return nil, fmt.Errorf("got k=%d for %d observations, %w", k, len(obs), ErrInvalidK)
	}

	rng := rand.New(rand.NewSource(opt.Seed))

	restarts := opt.Restarts
	if restarts < 1 {
		restarts = 1
	}

	var best []int
	bestInertia := math.Inf(1)
	for r := 0; r < restarts; r++ {
		centers := initPlusPlus(obs, k, rng)
		labels, inertia := lloyd(obs, centers, opt.MaxIter, opt.Tol)
		if inertia < bestInertia {
			bestInertia = inertia
			best = labels
		}
	}
	return relabel(best), nil
}

// initPlusPlus picks k starting centres, each drawn with probability
// proportional to its squared distance from the nearest centre so far.
func initPlusPlus(obs [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(obs[rng.Intn(len(obs))]))

	dist := make([]float64, len(obs))
	for len(centers) < k {
		for i, o := range obs {
			dist[i] = nearestSqDist(o, centers)
		}
		total := floats.Sum(dist)

		next := rng.Intn(len(obs))
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if acc >= target && d > 0 {
					next = i
					break
				}
			}
		}
		centers = append(centers, clone(obs[next]))
	}
	return centers
}

// lloyd alternates assignment and centre update until the centres move less
// than tol in total squared distance or maxIter is reached.
func lloyd(obs [][]float64, centers [][]float64, maxIter int, tol float64) ([]int, float64) {
	labels := make([]int, len(obs))
	nFeat := len(obs[0])

	for iter := 0; iter < maxIter; iter++ {
		for i, o := range obs {
			labels[i] = nearest(o, centers)
		}

		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for c := range sums {
			sums[c] = make([]float64, nFeat)
		}
		for i, o := range obs {
			floats.Add(sums[labels[i]], o)
			counts[labels[i]]++
		}

		shift := 0.0
		for c := range centers {
			// an empty cluster keeps its previous centre
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			d := floats.Distance(centers[c], sums[c], 2)
			shift += d * d
			centers[c] = sums[c]
		}
		if shift <= tol {
			break
		}
	}

	inertia := 0.0
	for i, o := range obs {
		labels[i] = nearest(o, centers)
		d := floats.Distance(o, centers[labels[i]], 2)
		inertia += d * d
	}
	return labels, inertia
}

func nearest(o []float64, centers [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, center := range centers {
		if d := floats.Distance(o, center, 2); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func nearestSqDist(o []float64, centers [][]float64) float64 {
	d := floats.Distance(o, centers[nearest(o, centers)], 2)
	return d * d
}

func relabel(labels []int) []int {
	mapping := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := mapping[l]
		if !ok {
			id = len(mapping)
			mapping[l] = id
		}
		out[i] = id
	}
	return out
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
