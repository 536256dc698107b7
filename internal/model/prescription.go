package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Medication struct {
	Name      Text `json:"name" bson:"name"`
	Dosage    Text `json:"dosage" bson:"dosage"`
	Frequency Text `json:"frequency" bson:"frequency"`
	Duration  Text `json:"duration" bson:"duration"`
}

type PrescriptionDetails struct {
	AppointmentID *primitive.ObjectID `json:"appointmentId,omitempty" bson:"appointmentId,omitempty"`
	PatientID     *primitive.ObjectID `json:"patientId,omitempty" bson:"patientId,omitempty"`
	DoctorID      *primitive.ObjectID `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	Medications   []Medication        `json:"medications" bson:"medications"`
	Instructions  Text                `json:"instructions" bson:"instructions"`
	Diagnosis     Text                `json:"diagnosis" bson:"diagnosis"`
}

type Prescription struct {
	Base                `bson:",inline"`
	PrescriptionDetails `bson:",inline"`
}

func NewPrescription(details PrescriptionDetails) (*Prescription, error) {
	if err := validate.Validate(details); err != nil {
		return nil, fmt.Errorf("prescription validation failed: %w", err)
	}
	if details.Medications == nil {
		details.Medications = []Medication{}
	}
	return &Prescription{PrescriptionDetails: details}, nil
}

type PrescriptionUpdate struct {
	AppointmentID *primitive.ObjectID `json:"appointmentId,omitempty" bson:"appointmentId,omitempty"`
	PatientID     *primitive.ObjectID `json:"patientId,omitempty" bson:"patientId,omitempty"`
	DoctorID      *primitive.ObjectID `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	Medications   *[]Medication       `json:"medications,omitempty" bson:"medications,omitempty"`
	Instructions  *Text               `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Diagnosis     *Text               `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
}

func (u *PrescriptionUpdate) Validate() error {
	if err := validate.Validate(u); err != nil {
		return fmt.Errorf("prescription validation failed: %w", err)
	}
	return nil
}

// PopulatedPrescription embeds the referenced appointment, patient and
// doctor in place of their ids. The appointment itself is not populated.
type PopulatedPrescription struct {
	*Prescription
	Appointment *Appointment `json:"appointmentId"`
	Patient     *Patient     `json:"patientId"`
	Doctor      *Doctor      `json:"doctorId"`
}
