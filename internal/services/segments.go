package services

import (
	"context"

	"labelpulse-api/internal/models"
	"labelpulse-api/internal/segment"
)

const maxSegments = 3

// SegmentService clusters customers on order value and tempo preference
type SegmentService struct {
	catalog *CatalogService
	opt     *segment.KMeansOptions
}

func NewSegmentService(catalog *CatalogService) *SegmentService {
	return &SegmentService{
		catalog: catalog,
		opt:     segment.NewDefaultKMeansOptions(),
	}
}

func (s *SegmentService) Clusters(ctx context.Context) ([]models.ClusterPoint, error) {
	db, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Segment(db.Customers, s.opt)
}

// Segment tags every customer with a cluster id in [0, min(3, len)).
func Segment(customers []models.Customer, opt *segment.KMeansOptions) ([]models.ClusterPoint, error) {
	points := make([]models.ClusterPoint, 0, len(customers))
	if len(customers) == 0 {
		return points, nil
	}

	obs := make([][]float64, len(customers))
	for i, c := range customers {
		obs[i] = []float64{c.AvgOrderValue, c.BPM}
	}

	scaled, err := segment.Standardize(obs)
	if err != nil {
		return nil, err
	}

	k := min(maxSegments, len(customers))
	labels, err := segment.KMeans(scaled, k, opt)
	if err != nil {
		return nil, err
	}

	for i, c := range customers {
		points = append(points, models.ClusterPoint{
			Name:    c.Name,
			X:       c.BPM,
			Y:       c.AvgOrderValue,
			Cluster: labels[i],
		})
	}
	return points, nil
}
