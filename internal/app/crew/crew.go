package crew

import (
	"github.com/google/uuid"

	"github.com/nimbuslabs/nimbus-agent/internal/app/routing"
	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

// Persona is one assembled crew member: a display name, its routing
// trigger term (specialists only), its LLM instructions, and the opaque
// handle the runtime invokes it by.
type Persona struct {
	Name         string
	DomainTerm   string
	Instructions string
	Handle       domain.ParticipantHandle
}

// Crew holds the assembled participants for one deployment. Built once
// at startup and read-only afterwards.
type Crew struct {
	Coordinator *Persona
	Specialists []*Persona
}

// Assemble turns a crew definition into personas with freshly minted
// handles.
func Assemble(file *File) *Crew {
	c := &Crew{
		Coordinator: assemblePersona(file.Coordinator),
	}
	for _, sp := range file.Specialists {
		c.Specialists = append(c.Specialists, assemblePersona(sp))
	}
	return c
}

func assemblePersona(cfg PersonaConfig) *Persona {
	return &Persona{
		Name:         cfg.Name,
		DomainTerm:   cfg.DomainTerm,
		Instructions: cfg.Instructions,
		Handle:       domain.ParticipantHandle(uuid.NewString()),
	}
}

// Registry builds the participant registry the selector consults.
func (c *Crew) Registry() *routing.Registry {
	reg := routing.NewRegistry()
	reg.Register(c.Coordinator.Name, c.Coordinator.Handle)
	for _, sp := range c.Specialists {
		reg.RegisterSpecialist(sp.Name, sp.DomainTerm, sp.Handle)
	}
	return reg
}
