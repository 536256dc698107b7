package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentDetails holds the caller supplied fields of an appointment.
// Patient and doctor references are not checked for existence.
type AppointmentDetails struct {
	PatientID       *primitive.ObjectID `json:"patientId,omitempty" bson:"patientId,omitempty"`
	DoctorID        *primitive.ObjectID `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	AppointmentDate *Date               `json:"appointmentDate,omitempty" bson:"appointmentDate,omitempty"`
	AppointmentTime Text                `json:"appointmentTime" bson:"appointmentTime"`
	Status          AppointmentStatus   `json:"status" bson:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes           Text                `json:"notes" bson:"notes"`
}

type Appointment struct {
	Base               `bson:",inline"`
	AppointmentDetails `bson:",inline"`
}

// NewAppointment builds an unsaved appointment, defaulting the status to
// scheduled.
func NewAppointment(details AppointmentDetails) (*Appointment, error) {
	if details.Status == "" {
		details.Status = AppointmentStatusScheduled
	}
	if err := validate.Validate(details); err != nil {
		return nil, fmt.Errorf("appointment validation failed: %w", err)
	}
	return &Appointment{AppointmentDetails: details}, nil
}

type AppointmentUpdate struct {
	PatientID       *primitive.ObjectID `json:"patientId,omitempty" bson:"patientId,omitempty"`
	DoctorID        *primitive.ObjectID `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	AppointmentDate *Date               `json:"appointmentDate,omitempty" bson:"appointmentDate,omitempty"`
	AppointmentTime *Text               `json:"appointmentTime,omitempty" bson:"appointmentTime,omitempty"`
	Status          *AppointmentStatus  `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes           *Text               `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (u *AppointmentUpdate) Validate() error {
	if err := validate.Validate(u); err != nil {
		return fmt.Errorf("appointment validation failed: %w", err)
	}
	return nil
}

// PopulatedAppointment is an appointment whose references have been
// resolved. The Patient and Doctor fields shadow the embedded id fields in
// JSON, so clients see the documents under patientId/doctorId. A reference
// that no longer resolves is emitted as null.
type PopulatedAppointment struct {
	*Appointment
	Patient *Patient `json:"patientId"`
	Doctor  *Doctor  `json:"doctorId"`
}
