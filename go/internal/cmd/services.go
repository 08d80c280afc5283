package main

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/kiosk/go/clients/attendance_client"
	"github.com/mcdev12/kiosk/go/internal/gateway"
	"github.com/mcdev12/kiosk/go/internal/kiosk"
	"github.com/mcdev12/kiosk/go/internal/kiosk/events"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

type Services struct {
	Attendance *attendance_client.AttendanceClient
	Synth      *tone.Synth
	Gateway    *gateway.Service
	Controller *kiosk.Controller
	Publisher  events.Publisher
	Health     *kiosk.HealthChecker

	nats *events.NATSPublisher
}

func setupServices(config *Config) (*Services, error) {
	// Backend client → synth → gateway (display) → controller, then bind the controller back

	attendance := attendance_client.NewAttendanceClient(config.Backend.URL)
	attendance.SetTimeout(config.Backend.Timeout)

	synth := tone.NewSynth()
	synth.SetVolume(config.Sound.Volume)
	synth.SetEnabled(config.Sound.Enabled)

	services := &Services{
		Attendance: attendance,
		Synth:      synth,
		Publisher:  events.NewLogPublisher(),
	}

	if config.Events.NATSURL != "" {
		publisher, err := events.ConnectNATS(config.Events.NATSURL, config.Events.SubjectPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event publisher: %w", err)
		}
		services.nats = publisher
		services.Publisher = publisher
		log.Info().Str("nats_url", config.Events.NATSURL).Msg("publishing kiosk events to NATS")
	}

	services.Gateway = gateway.NewService(gateway.DefaultConfig(), synth)
	services.Controller = kiosk.NewController(attendance, services.Gateway.Display(), services.Publisher, kiosk.Config{
		PollInterval:   config.Kiosk.PollInterval,
		PhotoHideDelay: config.Kiosk.PhotoHideDelay,
		Clock:          clockwork.NewRealClock(),
	})
	services.Gateway.Bind(services.Controller)

	if services.nats != nil {
		services.Health = kiosk.NewHealthChecker(services.Controller, services.nats)
	} else {
		services.Health = kiosk.NewHealthChecker(services.Controller, nil)
	}

	return services, nil
}

// Close stops polling and flushes the event publisher
func (s *Services) Close() {
	s.Controller.Close()
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Error().Err(err).Msg("failed to drain NATS connection")
		}
	}
}
