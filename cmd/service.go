package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/kardianos/service"
)

// program implements the kardianos/service interface around a blocking run function.
type program struct {
	run    func(ctx context.Context) error
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		if err := p.run(ctx); err != nil {
			log.Printf("Service stopped with error: %v", err)
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	log.Println("Stopping service...")
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
	return nil
}

// runService either performs a service control action (install, uninstall, start,
// stop) or runs run under the service manager, or interactively when started from a
// terminal.
func runService(cfg *service.Config, action string, run func(ctx context.Context) error) {
	s, err := service.New(&program{run: run}, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if action != "" {
		if err := service.Control(s, action); err != nil {
			log.Fatalf("Failed to %s service: %v", action, err)
		}
		fmt.Printf("Service action '%s' completed successfully.\n", action)
		return
	}

	logger, err := s.Logger(nil)
	if err != nil {
		log.Fatal(err)
	}
	if err = s.Run(); err != nil {
		_ = logger.Error(err)
	}
}

// serviceArguments rebuilds the connection flags so the installed service reaches the
// same camera.
func serviceArguments(command string, extra ...string) []string {
	args := []string{command}
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	return append(args, extra...)
}
