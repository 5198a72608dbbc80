package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewExists    = errors.New("product already reviewed by this person")
	ErrForbidden       = errors.New("not allowed")
	ErrImagesDisabled  = errors.New("image upload is not configured")
)
