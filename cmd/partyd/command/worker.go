package command

import (
	"fmt"

	"github.com/pixil98/go-party/internal/driver"
	"github.com/pixil98/go-party/internal/listener"
	"github.com/pixil98/go-party/internal/messaging"
	"github.com/pixil98/go-service/service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(natsServer)

	registry, err := cfg.Party.buildRegistry(publisher)
	if err != nil {
		return nil, fmt.Errorf("creating party registry: %w", err)
	}
	sessions := cfg.Party.buildSessionManager(registry, natsServer, publisher)
	cm := listener.NewConnectionManager(sessions)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.newWorker(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = w
	}

	// Invite expiry runs on the driver tick
	drv := driver.NewDriver([]driver.Ticker{registry}, driver.WithTickLength(cfg.tickLength()))

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    drv,
		"listeners": &listeners,
	}, nil
}
