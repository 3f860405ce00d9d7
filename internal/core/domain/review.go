package domain

import "time"

type Review struct {
	ID         string
	ProductID  string
	UserName   string
	Rating     int
	Title      string
	Body       string
	Images     []string
	IsVerified bool
	IsOwner    bool
	CreatedAt  time.Time
}

type AddReview struct {
	ProductID string
	Rating    int
	Title     string
	Body      string
	Images    []ImageFile
}
