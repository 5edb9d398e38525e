package models

import "time"

type Review struct {
	ReviewerID        uint      `json:"reviewerId"`
	ReviewerFirstName string    `json:"reviewerFirstName"`
	ReviewerLastName  string    `json:"reviewerLastName"`
	Rating            int       `json:"rating"`
	Review            string    `json:"review,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// ReviewInput - used to validate a review submission
type ReviewInput struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=10"`
	Review string `json:"review,omitempty" validate:"omitempty,max=512"`
}
