package model

import (
	"fmt"
)

type DoctorDetails struct {
	Name           Text   `json:"name" bson:"name"`
	Specialization Text   `json:"specialization" bson:"specialization"`
	Phone          Text   `json:"phone" bson:"phone"`
	Email          Text   `json:"email" bson:"email"`
	Experience     Number `json:"experience" bson:"experience"`
	Qualifications []Text `json:"qualifications" bson:"qualifications"`
}

type Doctor struct {
	Base          `bson:",inline"`
	DoctorDetails `bson:",inline"`
}

func NewDoctor(details DoctorDetails) (*Doctor, error) {
	if err := validate.Validate(details); err != nil {
		return nil, fmt.Errorf("doctor validation failed: %w", err)
	}
	if details.Qualifications == nil {
		details.Qualifications = []Text{}
	}
	return &Doctor{DoctorDetails: details}, nil
}

type DoctorUpdate struct {
	Name           *Text   `json:"name,omitempty" bson:"name,omitempty"`
	Specialization *Text   `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Phone          *Text   `json:"phone,omitempty" bson:"phone,omitempty"`
	Email          *Text   `json:"email,omitempty" bson:"email,omitempty"`
	Experience     *Number `json:"experience,omitempty" bson:"experience,omitempty"`
	Qualifications *[]Text `json:"qualifications,omitempty" bson:"qualifications,omitempty"`
}

func (u *DoctorUpdate) Validate() error {
	if err := validate.Validate(u); err != nil {
		return fmt.Errorf("doctor validation failed: %w", err)
	}
	return nil
}
