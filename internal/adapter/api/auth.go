package api

import (
	"context"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.AuthAPI = (*AuthAPI)(nil)

type AuthAPI struct {
	res resource
}

func NewAuthAPI(rq Requester, prefix string) AuthAPI {
	return AuthAPI{newResource("AuthAPI", prefix, rq)}
}

func (a AuthAPI) IsAdmin(ctx context.Context) (bool, error) {
	const op = "IsAdmin"

	var v isAdminDTO
	if err := a.res.rq.Get(ctx, a.res.path("isAdmin"), "", &v); err != nil {
		return false, a.res.opErr(op, err)
	}
	return v.IsAdmin, nil
}
