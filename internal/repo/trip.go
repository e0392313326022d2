// Package repo contains all database access logic for the itinera API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pmichel/itinera/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trip aggregates.
// The nested itinerary and expense structures are stored as whole documents:
// every save replaces the full aggregate, there are no partial-field updates.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows it to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip aggregate and returns the persisted record
	// (with DB-generated created_at/updated_at and version 1).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip aggregate by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListVisibleTo returns all trips the given user owns or participates in,
	// ordered by start_date ascending.
	ListVisibleTo(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// Update replaces the full stored aggregate, conditional on the version
	// the caller read. Returns domain.ErrConflict if a concurrent writer
	// advanced the version since, and domain.ErrNotFound if the trip is gone.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID, cascading to its embedded days, items,
	// and expenses (they live inside the document).
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of trips.
	Count(ctx context.Context) (int64, error)

	// CountCreatedSince returns the number of trips created at or after t.
	CountCreatedSince(ctx context.Context, t time.Time) (int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, shared_with, destination, start_date, end_date,
		notes, itinerary, expenses, version, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted aggregate.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, shared_with, destination, start_date, end_date, notes, itinerary, expenses)
		VALUES (@owner_id, @shared_with, @destination, @start_date, @end_date, @notes, @itinerary, @expenses)
		RETURNING ` + tripColumns

	args, err := tripArgs(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip aggregate by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListVisibleTo returns the trips owned by or shared with the user,
// soonest start date first.
func (r *pgTripRepo) ListVisibleTo(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @user_id OR @user_text = ANY(shared_with)
		ORDER BY start_date ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id":   userID,
		"user_text": userID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListVisibleTo: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListVisibleTo: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListVisibleTo: rows: %w", err)
	}

	return trips, nil
}

// Update replaces the stored aggregate if and only if the caller's version
// is still current. Dates and ownership are immutable after creation and are
// not part of the update set.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET shared_with = @shared_with,
		    destination = @destination,
		    notes       = @notes,
		    itinerary   = @itinerary,
		    expenses    = @expenses,
		    version     = version + 1,
		    updated_at  = now()
		WHERE id = @id AND version = @version
		RETURNING ` + tripColumns

	args, err := tripArgs(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	args["id"] = trip.ID
	args["version"] = trip.Version

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Distinguish a vanished trip from a lost race.
			var exists bool
			if checkErr := r.db.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM trips WHERE id = @id)`,
				pgx.NamedArgs{"id": trip.ID},
			).Scan(&exists); checkErr == nil && exists {
				return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrConflict)
			}
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key. The embedded days, items, and
// expenses go with the row.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Count returns the total number of trips.
func (r *pgTripRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Count: %w", err)
	}
	return n, nil
}

// CountCreatedSince returns the number of trips created at or after t.
func (r *pgTripRepo) CountCreatedSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM trips WHERE created_at >= @since`,
		pgx.NamedArgs{"since": t},
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.CountCreatedSince: %w", err)
	}
	return n, nil
}

// tripArgs builds the named arguments shared by Create and Update, with the
// nested itinerary and expense structures marshalled to JSONB documents.
func tripArgs(trip domain.Trip) (pgx.NamedArgs, error) {
	itinerary, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("marshal itinerary: %w", err)
	}
	expenses, err := json.Marshal(trip.Expenses)
	if err != nil {
		return nil, fmt.Errorf("marshal expenses: %w", err)
	}

	shared := make([]string, len(trip.SharedWith))
	for i, id := range trip.SharedWith {
		shared[i] = id.String()
	}

	return pgx.NamedArgs{
		"owner_id":    trip.OwnerID,
		"shared_with": shared,
		"destination": trip.Destination,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"notes":       trip.Notes,
		"itinerary":   itinerary,
		"expenses":    expenses,
	}, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip, unmarshalling the
// JSONB document columns back into the nested aggregate.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		ownerID   pgtype.UUID
		shared    []string
		startDate pgtype.Date
		endDate   pgtype.Date
		itinerary []byte
		expenses  []byte
	)

	err := s.Scan(&id, &ownerID, &shared, &t.Destination, &startDate, &endDate,
		&t.Notes, &itinerary, &expenses, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(ownerID.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time

	t.SharedWith = make([]uuid.UUID, 0, len(shared))
	for _, raw := range shared {
		uid, err := uuid.Parse(raw)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("parse shared_with entry: %w", err)
		}
		t.SharedWith = append(t.SharedWith, uid)
	}

	if err := json.Unmarshal(itinerary, &t.Itinerary); err != nil {
		return domain.Trip{}, fmt.Errorf("unmarshal itinerary: %w", err)
	}
	if err := json.Unmarshal(expenses, &t.Expenses); err != nil {
		return domain.Trip{}, fmt.Errorf("unmarshal expenses: %w", err)
	}

	return t, nil
}
