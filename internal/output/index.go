package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Faultbox/mcpalette/internal/extract"
	"github.com/Faultbox/mcpalette/internal/resolver"
	"github.com/Faultbox/mcpalette/pkg/palette"
)

var indexSchema = []string{
	`CREATE TABLE blocks (
		name  TEXT PRIMARY KEY,
		shape TEXT NOT NULL
	);`,
	`CREATE TABLE variants (
		block_id TEXT PRIMARY KEY,
		block    TEXT NOT NULL REFERENCES blocks(name),
		state    TEXT NOT NULL,
		model    TEXT,
		weight   INTEGER
	);`,
	`CREATE TABLE faces (
		block_id    TEXT NOT NULL,
		alternative INTEGER NOT NULL,
		slot        TEXT NOT NULL,
		texture     TEXT NOT NULL,
		rotation    INTEGER NOT NULL,
		flip_x      INTEGER NOT NULL,
		flip_y      INTEGER NOT NULL,
		encoded     TEXT NOT NULL,
		PRIMARY KEY (block_id, alternative, slot)
	);`,
	`CREATE INDEX faces_texture ON faces(texture);`,
}

// WriteIndex writes the result to a fresh SQLite database at path.
// Alternative 0 is the primary model of a material.
func WriteIndex(ctx context.Context, path string, res *extract.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing index: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	for _, stmt := range indexSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := insertResult(ctx, tx, res); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertResult(ctx context.Context, tx *sql.Tx, res *extract.Result) error {
	shapes := make(map[string]resolver.Shape)
	for _, name := range res.FullCube {
		shapes[name] = resolver.ShapeFullCube
	}
	for _, name := range res.Empty {
		shapes[name] = resolver.ShapeEmpty
	}

	materials := make(map[string]extract.Material, len(res.Materials))
	for _, m := range res.Materials {
		materials[m.ID()] = m
	}

	insBlock, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO blocks(name, shape) VALUES(?, ?)`)
	if err != nil {
		return err
	}
	defer insBlock.Close()
	insVariant, err := tx.PrepareContext(ctx, `INSERT INTO variants(block_id, block, state, model, weight) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insVariant.Close()
	insFace, err := tx.PrepareContext(ctx, `INSERT INTO faces(block_id, alternative, slot, texture, rotation, flip_x, flip_y, encoded) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insFace.Close()

	insertFaces := func(id string, alt int, fs palette.FaceSet) error {
		for i, f := range fs.Slots() {
			slot := palette.SlotNames[i]
			if _, err := insFace.ExecContext(ctx, id, alt, slot, f.Path, f.Rotation.Degrees(), f.FlipX, f.FlipY, f.String()); err != nil {
				return fmt.Errorf("inserting face %s/%s: %w", id, slot, err)
			}
		}
		return nil
	}

	for _, v := range res.Variants {
		if _, err := insBlock.ExecContext(ctx, v.Name, shapes[v.Name].String()); err != nil {
			return fmt.Errorf("inserting block %s: %w", v.Name, err)
		}

		id := v.ID()
		m, ok := materials[id]
		if !ok {
			if _, err := insVariant.ExecContext(ctx, id, v.Name, v.Key.String(), nil, nil); err != nil {
				return fmt.Errorf("inserting variant %s: %w", id, err)
			}
			continue
		}

		if _, err := insVariant.ExecContext(ctx, id, v.Name, v.Key.String(), m.Model, m.Weight); err != nil {
			return fmt.Errorf("inserting variant %s: %w", id, err)
		}
		if err := insertFaces(id, 0, m.Faces); err != nil {
			return err
		}
		for i, alt := range m.Alternatives {
			if err := insertFaces(id, i+1, alt.Faces); err != nil {
				return err
			}
		}
	}
	return nil
}
