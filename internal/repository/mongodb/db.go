package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/jwalitptl/medoffice-api/internal/model"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store is a MongoDB backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	repos  repository.Repositories
}

// NewStore parses the connection string and prepares a client. The driver
// connects lazily, so an unreachable server is only reported by Ping.
func NewStore(ctx context.Context, cfg Config, m *metrics.Metrics) (*Store, error) {
	dbName, err := databaseName(cfg)
	if err != nil {
		return nil, err
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetConnectTimeout(cfg.Timeout).SetServerSelectionTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client: client,
		db:     db,
		repos: repository.Repositories{
			Patients:      newCollection[model.Patient, model.PatientUpdate](db, repository.PatientsCollection, m),
			Doctors:       newCollection[model.Doctor, model.DoctorUpdate](db, repository.DoctorsCollection, m),
			Appointments:  newCollection[model.Appointment, model.AppointmentUpdate](db, repository.AppointmentsCollection, m),
			Prescriptions: newCollection[model.Prescription, model.PrescriptionUpdate](db, repository.PrescriptionsCollection, m),
		},
	}, nil
}

// databaseName prefers the database named in the URI path.
func databaseName(cfg Config) (string, error) {
	cs, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return "", fmt.Errorf("invalid mongo connection string: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	return "test", nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// referenceIndexes lists the reference fields that get a secondary index.
var referenceIndexes = map[string][]string{
	repository.AppointmentsCollection:  {"patientId", "doctorId"},
	repository.PrescriptionsCollection: {"appointmentId", "patientId", "doctorId"},
}

func (s *Store) Migrate(ctx context.Context) error {
	for coll, fields := range referenceIndexes {
		models := make([]mongo.IndexModel, 0, len(fields))
		for _, f := range fields {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}})
		}
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Repositories() repository.Repositories {
	return s.repos
}
