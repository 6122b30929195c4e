package recorder

// FiredEvent is one weapon launch.
type FiredEvent struct {
	ID       uint   `gorm:"primarykey"`
	AtMs     int64  `gorm:"index:idx_fired_at"`
	Shooter  uint64 `gorm:"index:idx_fired_shooter"`
	Weapon   string `gorm:"size:16"`
	Target   uint64
	X, Y, Z  float64
}

// HitEvent is one projectile connecting with an aircraft.
type HitEvent struct {
	ID       uint   `gorm:"primarykey"`
	AtMs     int64  `gorm:"index:idx_hit_at"`
	Attacker uint64 `gorm:"index:idx_hit_attacker"`
	Victim   uint64 `gorm:"index:idx_hit_victim"`
	Weapon   string `gorm:"size:16"`
	Damage   float64
	X, Y, Z  float64
}

// KillEvent is one aircraft destroyed.
type KillEvent struct {
	ID     uint   `gorm:"primarykey"`
	AtMs   int64  `gorm:"index:idx_kill_at"`
	Victim uint64 `gorm:"index:idx_kill_victim"`
	Killer uint64
	Weapon string `gorm:"size:16"`
}

// SpawnEvent is one aircraft entering or re-entering the match.
type SpawnEvent struct {
	ID      uint  `gorm:"primarykey"`
	AtMs    int64 `gorm:"index:idx_spawn_at"`
	Entity  uint64
	Heading float64
	X, Y, Z float64
}

// StateSample is a periodic snapshot of one aircraft, the raw material
// for flight path playback.
type StateSample struct {
	ID      uint   `gorm:"primarykey"`
	AtMs    int64  `gorm:"index:idx_sample_at"`
	Entity  uint64 `gorm:"index:idx_sample_entity"`
	X, Y, Z float64
	Speed   float64
	Health  float64
	Alive   bool
}
