package api

import (
	"context"
	"strconv"

	"github.com/niksmo/storefront/internal/adapter/httpclient"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ReviewsAPI = (*ReviewsAPI)(nil)

var ErrInvalidRating = domain.ErrInvalidRating

type ReviewsAPI struct {
	res resource
}

func NewReviewsAPI(rq Requester, prefix string) ReviewsAPI {
	return ReviewsAPI{newResource("ReviewsAPI", prefix, rq)}
}

func (a ReviewsAPI) AddReview(
	ctx context.Context, r domain.AddReview,
) (domain.Review, error) {
	const op = "AddReview"

	if r.Rating < 1 || r.Rating > 5 {
		return domain.Review{}, a.res.opErr(op, ErrInvalidRating)
	}

	form := httpclient.Multipart{
		Fields: []httpclient.Field{
			{Name: "product_id", Value: r.ProductID},
			{Name: "rating", Value: strconv.Itoa(r.Rating)},
			{Name: "title", Value: r.Title},
			{Name: "body", Value: r.Body},
		},
	}
	for _, img := range r.Images {
		if err := domain.ValidateImage(img); err != nil {
			return domain.Review{}, a.res.opErr(op, err)
		}
		form.Files = append(form.Files, httpclient.File{
			Field:       "images",
			Name:        img.Name,
			ContentType: img.ContentType,
			Content:     img.Content,
		})
	}

	var v reviewDTO
	path := a.res.path("reviews", "add-review")
	if err := a.res.rq.PostMultipart(ctx, path, form, nil, &v); err != nil {
		return domain.Review{}, a.res.opErr(op, err)
	}
	return v.toDomain(), nil
}

func (a ReviewsAPI) Reviews(
	ctx context.Context, productID string,
) ([]domain.Review, error) {
	const op = "Reviews"

	var vs []reviewDTO
	if err := a.res.rq.Get(ctx, a.res.path("reviews", escape(productID)), "", &vs); err != nil {
		return nil, a.res.opErr(op, err)
	}

	out := make([]domain.Review, len(vs))
	for i, v := range vs {
		out[i] = v.toDomain()
	}
	return out, nil
}

func (a ReviewsAPI) DeleteReview(ctx context.Context, reviewID string) error {
	const op = "DeleteReview"

	if err := a.res.rq.Delete(ctx, a.res.path("reviews", escape(reviewID)), nil); err != nil {
		return a.res.opErr(op, err)
	}
	return nil
}
