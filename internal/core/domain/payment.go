package domain

type PaymentSignatureRequest struct {
	TotalAmount     string
	TransactionUUID string
	ProductCode     string
}

type PaymentSignature struct {
	TransactionUUID  string
	Signature        string
	SignedFieldNames string
}
