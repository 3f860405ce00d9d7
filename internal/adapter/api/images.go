package api

import (
	"context"

	"github.com/niksmo/storefront/internal/adapter/httpclient"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ImagesAPI = (*ImagesAPI)(nil)

type ImagesAPI struct {
	res resource
}

func NewImagesAPI(rq Requester, prefix string) ImagesAPI {
	return ImagesAPI{newResource("ImagesAPI", prefix, rq)}
}

// UploadImage validates f locally and fails before any network call when it
// is rejected.
func (a ImagesAPI) UploadImage(
	ctx context.Context, f domain.ImageFile, progress func(int),
) (domain.UploadedImage, error) {
	const op = "UploadImage"

	if err := domain.ValidateImage(f); err != nil {
		return domain.UploadedImage{}, a.res.opErr(op, err)
	}

	form := httpclient.Multipart{
		Files: []httpclient.File{{
			Field:       "image",
			Name:        f.Name,
			ContentType: f.ContentType,
			Content:     f.Content,
		}},
	}

	var v uploadedImageDTO
	path := a.res.path("images", "disk-upload")
	if err := a.res.rq.PostMultipart(ctx, path, form, progress, &v); err != nil {
		return domain.UploadedImage{}, a.res.opErr(op, err)
	}
	return domain.UploadedImage{URL: v.URL, Filename: v.Filename}, nil
}
