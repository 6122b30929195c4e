package main

import (
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/game"
	"github.com/hangarbay/contrail/gamemath"
	"github.com/hangarbay/contrail/messages"
	"github.com/hangarbay/contrail/recorder"
	"github.com/hangarbay/contrail/sim"
)

// Harness runs N bot-piloted simulation cores against each other and plays
// the transport between them: every outbound message passes through the
// wire codec and fans out to every other core's inbound queue.
type Harness struct {
	log    zerolog.Logger
	games  []*game.Game
	pilots []*autopilot
	frames []game.Frame

	tickRate float64
	stopChan chan struct{}

	ticks int
	shots int
	hits  int
	kills int
}

func NewHarness(cfg config.Config, bots int, log zerolog.Logger) *Harness {
	h := &Harness{
		log:      log,
		tickRate: cfg.Net.TickRate,
		stopChan: make(chan struct{}),
	}
	for i := 0; i < bots; i++ {
		botCfg := cfg
		botCfg.Player = ringSpawn(cfg, i, bots)
		h.games = append(h.games, game.New(sim.EntityID(i+1), botCfg, log))
		h.pilots = append(h.pilots, newAutopilot(botCfg))
		h.frames = append(h.frames, game.Frame{})
	}
	return h
}

func (h *Harness) Run(duration time.Duration) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / h.tickRate))
	defer ticker.Stop()
	deadline := time.After(duration)

	h.log.Info().
		Float64("tickRate", h.tickRate).
		Int("bots", len(h.games)).
		Dur("duration", duration).
		Msg("engagement started")

	for {
		select {
		case <-h.stopChan:
			return
		case <-deadline:
			return
		case now := <-ticker.C:
			h.tick(now)
		}
	}
}

func (h *Harness) Stop() {
	close(h.stopChan)
}

func (h *Harness) tick(now time.Time) {
	h.ticks++
	for i, g := range h.games {
		in := h.pilots[i].input(g, h.frames[i])
		h.frames[i] = g.Advance(in, now)
	}
	// deliver after every core has advanced so messages land a tick after
	// they were sent, the way a real transport would
	for _, g := range h.games {
		for _, m := range g.Outbound() {
			h.route(g.ID(), m)
		}
	}
}

// route plays the wire: encode once, decode once, hand the result to every
// other core.
func (h *Harness) route(from sim.EntityID, m messages.Message) {
	wire, err := messages.Encode(m)
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(m.Kind())).Msg("encode failed, message dropped")
		return
	}
	decoded, err := messages.Decode(wire)
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(m.Kind())).Msg("decode failed, message dropped")
		return
	}

	switch decoded.Kind() {
	case messages.KindFire:
		h.shots++
	case messages.KindHit:
		h.hits++
	case messages.KindDeath:
		h.kills++
	}

	for _, peer := range h.games {
		if peer.ID() == from {
			continue
		}
		peer.Enqueue(decoded)
	}
}

// ringSpawn spreads the bots around a circle inside the arena, each facing
// the center, so an engagement develops without scripting.
func ringSpawn(cfg config.Config, i, n int) config.PlayerConfig {
	p := cfg.Player
	if n == 1 {
		return p
	}

	const ringRadius = 2500.0
	bearing := 2 * math.Pi * float64(i) / float64(n)

	metersPerDegLat := math.Pi * gamemath.SurfaceRadius(cfg.Arena.CenterLon, cfg.Arena.CenterLat) / 180
	metersPerDegLon := metersPerDegLat * math.Cos(cfg.Arena.CenterLat*math.Pi/180)

	p.SpawnLat = cfg.Arena.CenterLat + ringRadius*math.Cos(bearing)/metersPerDegLat
	p.SpawnLon = cfg.Arena.CenterLon + ringRadius*math.Sin(bearing)/metersPerDegLon
	p.SpawnAlt = cfg.Arena.CenterAlt
	p.SpawnHeading = bearing*180/math.Pi + 180 // face the center
	return p
}

func main() {
	configPath := flag.String("config", "", "JSON config overlay, empty for built-in defaults")
	duration := flag.Duration("duration", 30*time.Second, "how long to run the engagement")
	bots := flag.Int("bots", 2, "number of bot-piloted aircraft")
	record := flag.String("record", "", "after-action SQLite file, overrides the config's recorder section")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("could not load config")
		}
	}
	if *bots < 1 {
		*bots = 1
	}

	harness := NewHarness(cfg, *bots, log)

	recordPath := *record
	if recordPath == "" && cfg.Recorder.Enabled {
		recordPath = cfg.Recorder.Path
	}

	var rec *recorder.Recorder
	if recordPath != "" {
		r, err := recorder.Open(recordPath, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", recordPath).Msg("could not open recorder")
		}
		rec = r
		// the first core carries the flight recorder; it hears every kill
		// exactly once and logs its own shots, hits and states
		harness.games[0].SetRecorder(rec)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("interrupted, stopping")
		harness.Stop()
	}()

	harness.Run(*duration)

	log.Info().
		Int("ticks", harness.ticks).
		Int("shots", harness.shots).
		Int("hits", harness.hits).
		Int("kills", harness.kills).
		Msg("engagement finished")

	if rec != nil {
		sum, err := rec.Summarize()
		if err != nil {
			log.Error().Err(err).Msg("recorder summary failed")
		} else {
			log.Info().
				Int64("fired", sum.Fired).
				Int64("hits", sum.Hits).
				Int64("kills", sum.Kills).
				Int64("spawns", sum.Spawns).
				Int64("samples", sum.Samples).
				Str("path", recordPath).
				Msg("after-action recording written")
		}
		if err := rec.Close(); err != nil {
			log.Error().Err(err).Msg("recorder close failed")
		}
	}
}
