package cmd

import (
	"fmt"

	"github.com/pable/go-lol-metrics/internal/pipeline"
	"github.com/pable/go-lol-metrics/internal/storage"
)

// dbStore adapts storage.DB to batch.Store.
type dbStore struct {
	db     *storage.DB
	frames bool
}

func (s dbStore) MatchExists(hash string) (bool, error) {
	return s.db.MatchExists(hash)
}

func (s dbStore) Save(res *pipeline.Result) error {
	return saveResult(s.db, res, s.frames)
}

// saveResult replaces everything stored for the match with res in one
// transaction. Frames are skipped unless frames is set.
func saveResult(db *storage.DB, res *pipeline.Result, frames bool) error {
	rec := storage.MatchRecord{
		Summary: res.Summary,
		Teams:   res.Game.Teams,
		Results: res.OrderedTeams(),
	}
	if frames {
		rec.Frames = res.Game.Frames
	}
	if err := db.ReplaceMatch(rec); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}
