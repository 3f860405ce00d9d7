package service

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/query"
)

func (s *Service) Reviews(
	ctx context.Context, productID string,
) (query.Result[[]domain.Review], error) {
	const op = "Service.Reviews"

	key := query.NewKey(resReviews, productID)
	r, err := query.Fetch(scope(ctx), s.q, key, s.queryPolicy(productID != ""),
		func(ctx context.Context) ([]domain.Review, error) {
			return s.reviews.Reviews(ctx, productID)
		})
	if err != nil {
		return r, opErr(op, err)
	}
	return r, nil
}

func (s *Service) AddReview(
	ctx context.Context, r domain.AddReview,
) (domain.Review, error) {
	const op = "Service.AddReview"

	if r.Rating < 1 || r.Rating > 5 {
		return domain.Review{}, opErr(op, domain.ErrInvalidRating)
	}

	images := make([]func() domain.ImageFile, len(r.Images))
	for i, img := range r.Images {
		open, err := rewindable(img)
		if err != nil {
			return domain.Review{}, opErr(op, err)
		}
		images[i] = open
	}

	review, err := query.Mutate(scope(ctx), s.q, s.mutation(resReviews),
		func(ctx context.Context) (domain.Review, error) {
			attempt := r
			attempt.Images = make([]domain.ImageFile, len(images))
			for i, open := range images {
				attempt.Images[i] = open()
			}
			return s.reviews.AddReview(ctx, attempt)
		})
	if err != nil {
		return domain.Review{}, opErr(op, err)
	}
	return review, nil
}

func (s *Service) DeleteReview(ctx context.Context, reviewID string) error {
	const op = "Service.DeleteReview"

	_, err := query.Mutate(scope(ctx), s.q, s.mutation(resReviews),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.reviews.DeleteReview(ctx, reviewID)
		})
	if err != nil {
		return opErr(op, err)
	}
	return nil
}
