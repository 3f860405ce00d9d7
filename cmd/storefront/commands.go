package main

import (
	"context"
	"fmt"
	"math"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/internal/query"
	"github.com/spf13/pflag"
)

type execFn func(ctx context.Context, s *service.Service, args []string) (any, error)

type command struct {
	usage string
	setup func(fs *pflag.FlagSet) execFn
}

var commands = map[string]command{
	"config": {
		usage: "print the loaded configuration",
		setup: noFlags(func(context.Context, *service.Service, []string) (any, error) {
			return nil, nil
		}),
	},
	"products": {
		usage: "[--page n] [--limit n] [--sort s] [--min p] [--max p] [--search q] [--size s]...",
		setup: productsCmd,
	},
	"product": {
		usage: "<slug>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			return data(s.Product(ctx, args[0]))
		}),
	},
	"sizes": {
		usage: "<slug> <color>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 2 {
				return nil, errUsage
			}
			return data(s.ProductSizes(ctx, args[0], args[1]))
		}),
	},
	"recent": {
		usage: "list recently added products",
		setup: noFlags(func(ctx context.Context, s *service.Service, _ []string) (any, error) {
			return data(s.RecentProducts(ctx))
		}),
	},
	"cart": {
		usage: "show cart items",
		setup: noFlags(func(ctx context.Context, s *service.Service, _ []string) (any, error) {
			return data(s.Cart(ctx))
		}),
	},
	"cart-info": {
		usage: "<variant-id>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			return data(s.CartInfo(ctx, args[0]))
		}),
	},
	"cart-add": {
		usage: "[--quantity n] <variant-id>",
		setup: cartAddCmd,
	},
	"cart-remove": {
		usage: "<variant-id>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			return nil, s.DeleteCartItem(ctx, args[0])
		}),
	},
	"orders": {
		usage: "[transaction-id]",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			var txID string
			if len(args) > 0 {
				txID = args[0]
			}
			return data(s.OrderItems(ctx, txID))
		}),
	},
	"order-create": {
		usage: "[--address id] [--transaction id] [--payment method]",
		setup: orderCreateCmd,
	},
	"order-cancel": {
		usage: "<public-id>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			return nil, s.CancelOrder(ctx, args[0])
		}),
	},
	"sign": {
		usage: "--amount a [--transaction uuid] [--product-code c]",
		setup: signCmd,
	},
	"reviews": {
		usage: "<product-id>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			return data(s.Reviews(ctx, args[0]))
		}),
	},
	"review-add": {
		usage: "--product id --rating n [--title t] [--body b] [--image file]...",
		setup: reviewAddCmd,
	},
	"review-delete": {
		usage: "<review-id>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			return nil, s.DeleteReview(ctx, args[0])
		}),
	},
	"addresses": {
		usage: "list shipping addresses",
		setup: noFlags(func(ctx context.Context, s *service.Service, _ []string) (any, error) {
			return data(s.ShippingAddresses(ctx))
		}),
	},
	"address-add": {
		usage: "--name n --phone p --line l --city c [--state s] [--postal p] [--country c] [--default]",
		setup: addressAddCmd,
	},
	"upload": {
		usage: "<image-file>",
		setup: noFlags(func(ctx context.Context, s *service.Service, args []string) (any, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			f, closeFn, err := openImage(args[0])
			if err != nil {
				return nil, err
			}
			defer closeFn()
			return s.UploadImage(ctx, f, func(percent int) {
				fmt.Fprintf(os.Stderr, "\ruploading... %3d%%", percent)
				if percent == 100 {
					fmt.Fprintln(os.Stderr)
				}
			})
		}),
	},
	"is-admin": {
		usage: "report whether the session belongs to an admin",
		setup: noFlags(func(ctx context.Context, s *service.Service, _ []string) (any, error) {
			return data(s.IsAdmin(ctx))
		}),
	},
}

func noFlags(fn execFn) func(*pflag.FlagSet) execFn {
	return func(*pflag.FlagSet) execFn { return fn }
}

// data unwraps a query result for printing.
func data[T any](r query.Result[T], err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return r.Data, nil
}

func productsCmd(fs *pflag.FlagSet) execFn {
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 12, "page size")
	sortBy := fs.String("sort", "", "sort order")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	search := fs.String("search", "", "search text")
	sizes := fs.StringSlice("size", nil, "size filter, repeatable")

	return func(ctx context.Context, s *service.Service, _ []string) (any, error) {
		f := domain.ProductFilter{Sort: *sortBy, Search: *search, Sizes: *sizes}
		var err error
		if f.Min, err = parsePrice(*minPrice); err != nil {
			return nil, err
		}
		if f.Max, err = parsePrice(*maxPrice); err != nil {
			return nil, err
		}
		return data(s.Products(ctx, *page, *limit, f))
	}
}

func parsePrice(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	return &v, nil
}

func cartAddCmd(fs *pflag.FlagSet) execFn {
	quantity := fs.Int("quantity", 1, "number of items")

	return func(ctx context.Context, s *service.Service, args []string) (any, error) {
		if len(args) != 1 {
			return nil, errUsage
		}
		return nil, s.AddItemToCart(ctx, domain.AddCartItem{
			VariantID: args[0],
			Quantity:  *quantity,
		})
	}
}

func orderCreateCmd(fs *pflag.FlagSet) execFn {
	address := fs.String("address", "", "shipping address id, the selected one by default")
	txID := fs.String("transaction", "", "payment transaction id")
	payment := fs.String("payment", "", "payment method")

	return func(ctx context.Context, s *service.Service, _ []string) (any, error) {
		if *address == "" {
			if _, err := s.ShippingAddresses(ctx); err != nil {
				return nil, err
			}
		}
		return s.CreateOrder(ctx, domain.CreateOrder{
			ShippingAddressID: *address,
			TransactionID:     *txID,
			PaymentMethod:     *payment,
		})
	}
}

func signCmd(fs *pflag.FlagSet) execFn {
	amount := fs.String("amount", "", "total amount")
	txUUID := fs.String("transaction", "", "transaction uuid, generated when empty")
	productCode := fs.String("product-code", "", "merchant product code")

	return func(ctx context.Context, s *service.Service, _ []string) (any, error) {
		if *amount == "" {
			return nil, errUsage
		}
		return s.GeneratePaymentSignature(ctx, domain.PaymentSignatureRequest{
			TotalAmount:     *amount,
			TransactionUUID: *txUUID,
			ProductCode:     *productCode,
		})
	}
}

func reviewAddCmd(fs *pflag.FlagSet) execFn {
	productID := fs.String("product", "", "product id")
	rating := fs.Int("rating", 0, "rating from 1 to 5")
	title := fs.String("title", "", "review title")
	body := fs.String("body", "", "review text")
	images := fs.StringArray("image", nil, "image file, repeatable")

	return func(ctx context.Context, s *service.Service, _ []string) (any, error) {
		if *productID == "" {
			return nil, errUsage
		}

		r := domain.AddReview{
			ProductID: *productID,
			Rating:    *rating,
			Title:     *title,
			Body:      *body,
		}
		for _, path := range *images {
			f, closeFn, err := openImage(path)
			if err != nil {
				return nil, err
			}
			defer closeFn()
			r.Images = append(r.Images, f)
		}
		return s.AddReview(ctx, r)
	}
}

func addressAddCmd(fs *pflag.FlagSet) execFn {
	name := fs.String("name", "", "recipient name")
	phone := fs.String("phone", "", "phone number")
	line := fs.String("line", "", "address line")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state or province")
	postal := fs.String("postal", "", "postal code")
	country := fs.String("country", "", "country")
	isDefault := fs.Bool("default", false, "make it the default address")

	return func(ctx context.Context, s *service.Service, _ []string) (any, error) {
		if *name == "" || *line == "" || *city == "" {
			return nil, errUsage
		}
		return s.AddShippingAddress(ctx, domain.AddShippingAddress{
			RecipientName: *name,
			Phone:         *phone,
			AddressLine:   *line,
			City:          *city,
			State:         *state,
			PostalCode:    *postal,
			Country:       *country,
			IsDefault:     *isDefault,
		})
	}
}

func openImage(path string) (domain.ImageFile, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ImageFile{}, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return domain.ImageFile{}, nil, err
	}
	return domain.ImageFile{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}
