package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrGuestNotFound = errors.New("guest not found")

const guestColumns = `id, name, phone, status, additional_qty, companion_name, message, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (*Guest, error) {
	g := &Guest{}
	var phone, companionName, message sql.NullString
	err := row.Scan(&g.ID, &g.Name, &phone, &g.Status, &g.AdditionalQty,
		&companionName, &message, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	g.Phone = nullableString(phone)
	g.CompanionName = nullableString(companionName)
	g.Message = nullableString(message)
	g.CreatedAt = g.CreatedAt.UTC()
	return g, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// CreateGuest inserts a new guest with a fresh id and creation timestamp
func (db *DB) CreateGuest(ctx context.Context, in NewGuest) (*Guest, error) {
	id := uuid.NewString()
	createdAt := db.now().UTC().Truncate(time.Microsecond)

	_, err := db.ExecContext(ctx,
		`INSERT INTO guests (`+guestColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, in.Name, in.Phone, string(in.Status), in.AdditionalQty, in.CompanionName, in.Message, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	return db.GetGuestByID(ctx, id)
}

// GetGuestByID retrieves a guest by ID
func (db *DB) GetGuestByID(ctx context.Context, id string) (*Guest, error) {
	g, err := scanGuest(db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}

	return g, nil
}

// ListGuests retrieves all guests, newest first
func (db *DB) ListGuests(ctx context.Context) ([]*Guest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	guests := make([]*Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guests: %w", err)
	}

	return guests, nil
}
