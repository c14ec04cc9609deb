// Package party checks that a counterparty exists and fills in its
// display name.
package party

import (
	"context"
	"errors"

	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	jobworkerdomain "github.com/smallbiznis/karatledger/internal/jobworker/domain"
	"github.com/smallbiznis/karatledger/internal/reference"
	"go.uber.org/fx"
)

var (
	ErrNotFound    = errors.New("party_not_found")
	ErrMissingName = errors.New("missing_party_name")
)

type Params struct {
	fx.In

	Customers  customerdomain.Service
	JobWorkers jobworkerdomain.Service
	Agents     agentdomain.Service
}

type Resolver struct {
	customers  customerdomain.Service
	jobWorkers jobworkerdomain.Service
	agents     agentdomain.Service
}

func New(p Params) *Resolver {
	return &Resolver{
		customers:  p.Customers,
		jobWorkers: p.JobWorkers,
		agents:     p.Agents,
	}
}

// Resolve normalizes p and, for a registered party, loads its current
// name. A none party must carry a name of its own.
func (r *Resolver) Resolve(ctx context.Context, p reference.Party) (reference.Party, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return reference.Party{}, err
	}

	id := p.ID().String()
	switch p.Kind {
	case reference.PartyNone:
		if p.Name == "" {
			return reference.Party{}, ErrMissingName
		}
		return p, nil
	case reference.PartyCustomer:
		c, err := r.customers.GetByID(ctx, id)
		if err != nil {
			return reference.Party{}, notFound(err, customerdomain.ErrNotFound)
		}
		p.Name = c.Name
	case reference.PartyJobWorker:
		w, err := r.jobWorkers.GetByID(ctx, id)
		if err != nil {
			return reference.Party{}, notFound(err, jobworkerdomain.ErrNotFound)
		}
		p.Name = w.Name
	case reference.PartyAgent:
		a, err := r.agents.GetByID(ctx, id)
		if err != nil {
			return reference.Party{}, notFound(err, agentdomain.ErrNotFound)
		}
		p.Name = a.Name
	}
	return p, nil
}

// Customer resolves id as a customer party.
func (r *Resolver) Customer(ctx context.Context, id string) (reference.Party, error) {
	c, err := r.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, customerdomain.ErrInvalidID) {
			return reference.Party{}, reference.ErrMissingPartyID
		}
		return reference.Party{}, notFound(err, customerdomain.ErrNotFound)
	}
	return reference.NewParty(reference.PartyCustomer, c.ID, c.Name), nil
}

// JobWorker resolves id as a job worker party.
func (r *Resolver) JobWorker(ctx context.Context, id string) (reference.Party, error) {
	w, err := r.jobWorkers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, jobworkerdomain.ErrInvalidID) {
			return reference.Party{}, reference.ErrMissingPartyID
		}
		return reference.Party{}, notFound(err, jobworkerdomain.ErrNotFound)
	}
	return reference.NewParty(reference.PartyJobWorker, w.ID, w.Name), nil
}

// Agent resolves id as an agent party.
func (r *Resolver) Agent(ctx context.Context, id string) (reference.Party, error) {
	a, err := r.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, agentdomain.ErrInvalidID) {
			return reference.Party{}, reference.ErrMissingPartyID
		}
		return reference.Party{}, notFound(err, agentdomain.ErrNotFound)
	}
	return reference.NewParty(reference.PartyAgent, a.ID, a.Name), nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return ErrNotFound
	}
	return err
}
