package objectives

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListObjectives(ctx context.Context) ([]Objective, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, description, level, progress, status, contributors_json
    FROM objectives
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Objective
	for rows.Next() {
		var obj Objective
		var contributorsJSON []byte
		if err := rows.Scan(&obj.ID, &obj.Title, &obj.Description, &obj.Level, &obj.Progress, &obj.Status, &contributorsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(contributorsJSON, &obj.Contributors); err != nil {
			obj.Contributors = nil
		}
		out = append(out, obj)
	}
	return out, rows.Err()
}

func (s *Store) CreateObjective(ctx context.Context, obj Objective) (string, error) {
	contributorsJSON, err := json.Marshal(obj.Contributors)
	if err != nil {
		return "", err
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO objectives (title, description, level, progress, status, contributors_json)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, obj.Title, obj.Description, obj.Level, obj.Progress, obj.Status, contributorsJSON).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
