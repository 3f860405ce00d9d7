package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/niksmo/storefront/internal/adapter/httpclient"
)

var _ httpclient.Navigator = loginNavigator{}

// A loginNavigator tells the terminal user where to sign in.
type loginNavigator struct {
	url string
}

func newLoginNavigator(baseURL, loginPath string) loginNavigator {
	return loginNavigator{
		url: strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(loginPath, "/"),
	}
}

func (n loginNavigator) NavigateToLogin(ctx context.Context) {
	slog.WarnContext(ctx, "session is not authorized, sign in to continue", "url", n.url)
}
