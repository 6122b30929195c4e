// Package recorder persists match telemetry to SQLite for after-action
// review. Recording is best-effort: a write failure disables the
// recorder with a warning and the match keeps running without it.
package recorder

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// flushEvery bounds how many buffered rows accumulate before a batch
// insert. Small enough that a crash loses little, large enough that
// inserts do not run every tick.
const flushEvery = 256

// Recorder buffers match events and writes them to SQLite in batches.
// It is not safe for concurrent use; the simulation tick owns it.
type Recorder struct {
	db    *gorm.DB
	log   zerolog.Logger
	valid bool

	fired   []FiredEvent
	hits    []HitEvent
	kills   []KillEvent
	spawns  []SpawnEvent
	samples []StateSample
}

// Summary counts the rows persisted so far, for end-of-match reporting.
type Summary struct {
	Fired   int64
	Hits    int64
	Kills   int64
	Spawns  int64
	Samples int64
}

// Open creates or opens the recording database at path. An empty path
// selects a shared in-memory database, useful for tests and dry runs.
func Open(path string, log zerolog.Logger) (*Recorder, error) {
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        flushEvery,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening recording db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("setting %q: %w", pragma, err)
		}
	}

	if err := db.AutoMigrate(
		&FiredEvent{}, &HitEvent{}, &KillEvent{}, &SpawnEvent{}, &StateSample{},
	); err != nil {
		return nil, fmt.Errorf("migrating recording schema: %w", err)
	}

	log.Info().Str("path", path).Msg("recording enabled")
	return &Recorder{db: db, log: log, valid: true}, nil
}

// RecordFired buffers a weapon launch.
func (r *Recorder) RecordFired(atMs int64, shooter uint64, weapon string, target uint64, x, y, z float64) {
	if !r.valid {
		return
	}
	r.fired = append(r.fired, FiredEvent{AtMs: atMs, Shooter: shooter, Weapon: weapon, Target: target, X: x, Y: y, Z: z})
	r.maybeFlush()
}

// RecordHit buffers a projectile impact.
func (r *Recorder) RecordHit(atMs int64, attacker, victim uint64, weapon string, damage, x, y, z float64) {
	if !r.valid {
		return
	}
	r.hits = append(r.hits, HitEvent{AtMs: atMs, Attacker: attacker, Victim: victim, Weapon: weapon, Damage: damage, X: x, Y: y, Z: z})
	r.maybeFlush()
}

// RecordKill buffers an aircraft destruction.
func (r *Recorder) RecordKill(atMs int64, victim, killer uint64, weapon string) {
	if !r.valid {
		return
	}
	r.kills = append(r.kills, KillEvent{AtMs: atMs, Victim: victim, Killer: killer, Weapon: weapon})
	r.maybeFlush()
}

// RecordSpawn buffers an aircraft spawn.
func (r *Recorder) RecordSpawn(atMs int64, entity uint64, heading, x, y, z float64) {
	if !r.valid {
		return
	}
	r.spawns = append(r.spawns, SpawnEvent{AtMs: atMs, Entity: entity, Heading: heading, X: x, Y: y, Z: z})
	r.maybeFlush()
}

// RecordState buffers a periodic aircraft snapshot.
func (r *Recorder) RecordState(atMs int64, entity uint64, x, y, z, speed, health float64, alive bool) {
	if !r.valid {
		return
	}
	r.samples = append(r.samples, StateSample{AtMs: atMs, Entity: entity, X: x, Y: y, Z: z, Speed: speed, Health: health, Alive: alive})
	r.maybeFlush()
}

func (r *Recorder) pending() int {
	return len(r.fired) + len(r.hits) + len(r.kills) + len(r.spawns) + len(r.samples)
}

func (r *Recorder) maybeFlush() {
	if r.pending() >= flushEvery {
		r.Flush()
	}
}

// Flush writes all buffered rows. Called automatically when the buffer
// fills and again on Close.
func (r *Recorder) Flush() {
	if !r.valid {
		return
	}
	if len(r.fired) > 0 {
		if err := r.db.Create(&r.fired).Error; err != nil {
			r.fail("fired_events", err)
			return
		}
		r.fired = r.fired[:0]
	}
	if len(r.hits) > 0 {
		if err := r.db.Create(&r.hits).Error; err != nil {
			r.fail("hit_events", err)
			return
		}
		r.hits = r.hits[:0]
	}
	if len(r.kills) > 0 {
		if err := r.db.Create(&r.kills).Error; err != nil {
			r.fail("kill_events", err)
			return
		}
		r.kills = r.kills[:0]
	}
	if len(r.spawns) > 0 {
		if err := r.db.Create(&r.spawns).Error; err != nil {
			r.fail("spawn_events", err)
			return
		}
		r.spawns = r.spawns[:0]
	}
	if len(r.samples) > 0 {
		if err := r.db.Create(&r.samples).Error; err != nil {
			r.fail("state_samples", err)
			return
		}
		r.samples = r.samples[:0]
	}
}

func (r *Recorder) fail(table string, err error) {
	r.valid = false
	r.log.Warn().Err(err).Str("table", table).Msg("recording disabled after write failure")
}

// Summarize flushes and counts what landed in each table.
func (r *Recorder) Summarize() (Summary, error) {
	r.Flush()
	var s Summary
	for _, c := range []struct {
		model any
		dst   *int64
	}{
		{&FiredEvent{}, &s.Fired},
		{&HitEvent{}, &s.Hits},
		{&KillEvent{}, &s.Kills},
		{&SpawnEvent{}, &s.Spawns},
		{&StateSample{}, &s.Samples},
	} {
		if err := r.db.Model(c.model).Count(c.dst).Error; err != nil {
			return Summary{}, fmt.Errorf("counting rows: %w", err)
		}
	}
	return s, nil
}

// Close flushes pending rows and releases the database handle.
func (r *Recorder) Close() error {
	r.Flush()
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
