// Package plugin groups commands into named units and applies them to
// the running bot in registration order.
package plugin

import (
	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/command"
)

type Plugin struct {
	Name     string
	Commands []*command.Command

	// Apply runs once at startup, after the session is open.
	Apply func(s *discordgo.Session) error
}

// Registrar collects plugins and feeds their commands into the shared
// registry. Plugins apply in the order they were registered.
type Registrar struct {
	registry *command.Registry
	plugins  []*Plugin
}

func NewRegistrar(registry *command.Registry) *Registrar {
	return &Registrar{registry: registry}
}

func (r *Registrar) Register(p *Plugin) {
	r.plugins = append(r.plugins, p)
	for _, cmd := range p.Commands {
		r.registry.Register(cmd)
	}
}

func (r *Registrar) Apply(s *discordgo.Session) error {
	for _, p := range r.plugins {
		if p.Apply == nil {
			continue
		}
		if err := p.Apply(s); err != nil {
			return err
		}
	}
	return nil
}
