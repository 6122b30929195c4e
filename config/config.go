// Package config holds every tunable of the simulation core in typed
// sections. Default returns the canonical values; Load overlays a JSON file
// on top of them. The whole tree is plain data so tests can inject any
// variation without touching disk.
package config

// ArenaConfig describes the bounded play volume. The center is anchored
// geographically and resolved to the planet-fixed frame at startup.
type ArenaConfig struct {
	CenterLon float64 `mapstructure:"centerLon"` // degrees east
	CenterLat float64 `mapstructure:"centerLat"` // degrees north
	CenterAlt float64 `mapstructure:"centerAlt"` // meters above the surface
	Radius    float64 `mapstructure:"radius"`    // playable radius around the center
	Floor     float64 `mapstructure:"floor"`     // minimum altitude above the surface
	Ceiling   float64 `mapstructure:"ceiling"`   // maximum altitude above the surface
	SteerRate float64 `mapstructure:"steerRate"` // velocity blend per tick inside the soft boundary
}

// FlightConfig holds the flight model constants.
type FlightConfig struct {
	Mass       float64 `mapstructure:"mass"`       // kg
	IdleThrust float64 `mapstructure:"idleThrust"` // N at zero throttle
	MaxThrust  float64 `mapstructure:"maxThrust"`  // N at full throttle
	WingArea   float64 `mapstructure:"wingArea"`   // m^2
	LiftCoef   float64 `mapstructure:"liftCoef"`
	DragCoef   float64 `mapstructure:"dragCoef"`
	AirDensity float64 `mapstructure:"airDensity"` // kg/m^3, constant with altitude
	Gravity    float64 `mapstructure:"gravity"`    // m/s^2 toward the planet center

	StallSpeed  float64 `mapstructure:"stallSpeed"`  // controls fade out below this
	CruiseSpeed float64 `mapstructure:"cruiseSpeed"` // controls saturate at this
	MaxSpeed    float64 `mapstructure:"maxSpeed"`    // hard velocity clamp

	ThrottleRate float64 `mapstructure:"throttleRate"` // throttle change per second of held input

	PitchAccel     float64 `mapstructure:"pitchAccel"`     // rad/s^2 at full deflection
	RollAccel      float64 `mapstructure:"rollAccel"`      // rad/s^2 at full deflection
	YawAccel       float64 `mapstructure:"yawAccel"`       // rad/s^2 at full deflection
	AngularDamping float64 `mapstructure:"angularDamping"` // 1/s exponential decay
	MaxPitchRate   float64 `mapstructure:"maxPitchRate"`   // rad/s
	MaxRollRate    float64 `mapstructure:"maxRollRate"`    // rad/s
	MaxYawRate     float64 `mapstructure:"maxYawRate"`     // rad/s
}

// MissileConfig holds the guided weapon tunables.
type MissileConfig struct {
	Speed        float64 `mapstructure:"speed"`        // m/s, constant while flying
	Damage       float64 `mapstructure:"damage"`       // health per hit
	Cooldown     float64 `mapstructure:"cooldown"`     // seconds between launches per owner
	Lifetime     float64 `mapstructure:"lifetime"`     // seconds before self-destruct
	FuseRadius   float64 `mapstructure:"fuseRadius"`   // proximity detonation distance
	TurnRate     float64 `mapstructure:"turnRate"`     // line-of-sight blend fraction per second
	LockRange    float64 `mapstructure:"lockRange"`    // max target acquisition distance
	LockMaxAngle float64 `mapstructure:"lockMaxAngle"` // radians off boresight for a lock
}

// GunConfig holds the ballistic weapon tunables.
type GunConfig struct {
	Speed        float64 `mapstructure:"speed"`        // m/s muzzle speed, firer velocity adds on top
	Damage       float64 `mapstructure:"damage"`       // health per hit
	Cooldown     float64 `mapstructure:"cooldown"`     // seconds between rounds
	Range        float64 `mapstructure:"range"`        // meters; lifetime is range/speed
	Spread       float64 `mapstructure:"spread"`       // radians of dispersion per axis
	BulletRadius float64 `mapstructure:"bulletRadius"` // proximity hit distance
}

// NetConfig holds tick, emission and reconciliation rates.
type NetConfig struct {
	TickRate           float64 `mapstructure:"tickRate"`           // simulation ticks per second
	SendRate           float64 `mapstructure:"sendRate"`           // position samples per second
	SnapThreshold      float64 `mapstructure:"snapThreshold"`      // prediction error that abandons smoothing
	CorrectionDuration float64 `mapstructure:"correctionDuration"` // seconds to blend a correction out
	MaxExtrapolation   float64 `mapstructure:"maxExtrapolation"`   // seconds of dead reckoning past a sample
	InboundQueueSize   int     `mapstructure:"inboundQueueSize"`   // bounded inbound message buffer
}

// PlayerConfig holds per-aircraft combat tunables and the respawn anchor.
type PlayerConfig struct {
	Health       float64 `mapstructure:"health"`
	Radius       float64 `mapstructure:"radius"`       // collision sphere radius
	RespawnDelay float64 `mapstructure:"respawnDelay"` // seconds between death and respawn

	SpawnLon     float64 `mapstructure:"spawnLon"`     // degrees east
	SpawnLat     float64 `mapstructure:"spawnLat"`     // degrees north
	SpawnAlt     float64 `mapstructure:"spawnAlt"`     // meters above the surface
	SpawnHeading float64 `mapstructure:"spawnHeading"` // degrees clockwise from north
}

// RecorderConfig controls after-action event persistence.
type RecorderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite file, ":memory:" for tests
}

// Config is the root of all tunables handed to a simulation context.
type Config struct {
	Arena    ArenaConfig    `mapstructure:"arena"`
	Flight   FlightConfig   `mapstructure:"flight"`
	Missile  MissileConfig  `mapstructure:"missile"`
	Gun      GunConfig      `mapstructure:"gun"`
	Net      NetConfig      `mapstructure:"net"`
	Player   PlayerConfig   `mapstructure:"player"`
	Recorder RecorderConfig `mapstructure:"recorder"`
}

// Default returns the canonical tunables. The flight constants are balanced
// so that level flight at cruise speed roughly holds altitude at mid throttle.
func Default() Config {
	return Config{
		Arena: ArenaConfig{
			CenterLon: -116.15,
			CenterLat: 36.45,
			CenterAlt: 3000,
			Radius:    8000,
			Floor:     500,
			Ceiling:   5500,
			SteerRate: 0.02,
		},
		Flight: FlightConfig{
			Mass:       6000,
			IdleThrust: 2000,
			MaxThrust:  50000,
			WingArea:   24,
			LiftCoef:   0.18,
			DragCoef:   0.065,
			AirDensity: 1.225,
			Gravity:    9.81,

			StallSpeed:  60,
			CruiseSpeed: 150,
			MaxSpeed:    250,

			ThrottleRate: 0.5,

			PitchAccel:     6.0,
			RollAccel:      10.0,
			YawAccel:       2.4,
			AngularDamping: 4.0,
			MaxPitchRate:   1.2,
			MaxRollRate:    2.0,
			MaxYawRate:     0.5,
		},
		Missile: MissileConfig{
			Speed:        240,
			Damage:       35,
			Cooldown:     4,
			Lifetime:     8,
			FuseRadius:   12,
			TurnRate:     2.0,
			LockRange:    2500,
			LockMaxAngle: 0.5236, // 30 degrees
		},
		Gun: GunConfig{
			Speed:        600,
			Damage:       6,
			Cooldown:     0.12,
			Range:        1200,
			Spread:       0.02,
			BulletRadius: 4,
		},
		Net: NetConfig{
			TickRate:           60,
			SendRate:           20,
			SnapThreshold:      25,
			CorrectionDuration: 0.2,
			MaxExtrapolation:   0.5,
			InboundQueueSize:   256,
		},
		Player: PlayerConfig{
			Health:       100,
			Radius:       8,
			RespawnDelay: 5,

			SpawnLon:     -116.15,
			SpawnLat:     36.45,
			SpawnAlt:     3000,
			SpawnHeading: 0,
		},
		Recorder: RecorderConfig{
			Enabled: false,
			Path:    "contrail.db",
		},
	}
}
