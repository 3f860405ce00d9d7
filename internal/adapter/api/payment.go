package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.PaymentAPI = (*PaymentAPI)(nil)

type PaymentAPI struct {
	res resource
}

func NewPaymentAPI(rq Requester, prefix string) PaymentAPI {
	return PaymentAPI{newResource("PaymentAPI", prefix, rq)}
}

// GenerateSignature asks the backend to sign a payment. A missing transaction
// uuid is generated.
func (a PaymentAPI) GenerateSignature(
	ctx context.Context, r domain.PaymentSignatureRequest,
) (domain.PaymentSignature, error) {
	const op = "GenerateSignature"

	if r.TransactionUUID == "" {
		r.TransactionUUID = uuid.NewString()
	}

	body := paymentSignatureRequestDTO{
		TotalAmount:     r.TotalAmount,
		TransactionUUID: r.TransactionUUID,
		ProductCode:     r.ProductCode,
	}

	var v paymentSignatureDTO
	if err := a.res.rq.Post(ctx, a.res.path("payment", "generate-signature"), body, &v); err != nil {
		return domain.PaymentSignature{}, a.res.opErr(op, err)
	}

	if v.TransactionUUID == "" {
		v.TransactionUUID = r.TransactionUUID
	}
	return domain.PaymentSignature{
		TransactionUUID:  v.TransactionUUID,
		Signature:        v.Signature,
		SignedFieldNames: v.SignedFieldNames,
	}, nil
}
