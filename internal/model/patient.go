package model

import (
	"fmt"
)

type MedicalCondition struct {
	Condition   Text  `json:"condition" bson:"condition"`
	DiagnosedOn *Date `json:"diagnosedOn,omitempty" bson:"diagnosedOn,omitempty"`
	Notes       Text  `json:"notes" bson:"notes"`
}

// PatientDetails holds the caller supplied fields of a patient.
type PatientDetails struct {
	Name           Text               `json:"name" bson:"name"`
	Age            Number             `json:"age" bson:"age"`
	Gender         Text               `json:"gender" bson:"gender"`
	Phone          Text               `json:"phone" bson:"phone"`
	Email          Text               `json:"email" bson:"email"`
	Address        Text               `json:"address" bson:"address"`
	MedicalHistory []MedicalCondition `json:"medicalHistory" bson:"medicalHistory"`
}

type Patient struct {
	Base           `bson:",inline"`
	PatientDetails `bson:",inline"`
}

// NewPatient builds an unsaved patient from caller input.
func NewPatient(details PatientDetails) (*Patient, error) {
	if err := validate.Validate(details); err != nil {
		return nil, fmt.Errorf("patient validation failed: %w", err)
	}
	if details.MedicalHistory == nil {
		details.MedicalHistory = []MedicalCondition{}
	}
	return &Patient{PatientDetails: details}, nil
}

// PatientUpdate carries a merge update; nil fields are left untouched.
type PatientUpdate struct {
	Name           *Text               `json:"name,omitempty" bson:"name,omitempty"`
	Age            *Number             `json:"age,omitempty" bson:"age,omitempty"`
	Gender         *Text               `json:"gender,omitempty" bson:"gender,omitempty"`
	Phone          *Text               `json:"phone,omitempty" bson:"phone,omitempty"`
	Email          *Text               `json:"email,omitempty" bson:"email,omitempty"`
	Address        *Text               `json:"address,omitempty" bson:"address,omitempty"`
	MedicalHistory *[]MedicalCondition `json:"medicalHistory,omitempty" bson:"medicalHistory,omitempty"`
}

func (u *PatientUpdate) Validate() error {
	if err := validate.Validate(u); err != nil {
		return fmt.Errorf("patient validation failed: %w", err)
	}
	return nil
}
