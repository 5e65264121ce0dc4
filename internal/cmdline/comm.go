package cmdline

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// IndexSets are the entry indices one rank consumed and saw as input
// parameters.
type IndexSets struct {
	Used      []int
	HitParams []int
}

// Communicator exchanges index sets between the ranks of one run.
type Communicator interface {
	Rank() int
	Size() int
	// AllGather contributes local and returns the contribution of every
	// rank, indexed by rank. It blocks until all ranks have contributed.
	AllGather(ctx context.Context, local IndexSets) ([]IndexSets, error)
}

// AllGather unions the consumed and input parameter flags of every rank into
// c. All ranks must have parsed the same arguments.
func (c *CommandLine) AllGather(ctx context.Context, comm Communicator) error {
	var local IndexSets
	for i, e := range c.entries {
		if e.Used {
			local.Used = append(local.Used, i)
		}
		if e.HitParam {
			local.HitParams = append(local.HitParams, i)
		}
	}
	all, err := comm.AllGather(ctx, local)
	if err != nil {
		return fmt.Errorf("gathering command line usage from rank %d: %w", comm.Rank(), err)
	}
	used := lo.Uniq(lo.FlatMap(all, func(s IndexSets, _ int) []int { return s.Used }))
	hit := lo.Uniq(lo.FlatMap(all, func(s IndexSets, _ int) []int { return s.HitParams }))
	for _, i := range used {
		if i < 0 || i >= len(c.entries) {
			return fmt.Errorf("rank sent entry index %d, but the command line has %d entries", i, len(c.entries))
		}
		c.entries[i].Used = true
	}
	for _, i := range hit {
		if i >= 0 && i < len(c.entries) {
			c.entries[i].HitParam = true
		}
	}
	return nil
}

// Group is an in-process set of ranks that gather through shared memory.
type Group struct {
	mu    sync.Mutex
	size  int
	round *round
}

type round struct {
	sets    []IndexSets
	arrived int
	done    chan struct{}
}

// NewGroup creates a group of size ranks.
func NewGroup(size int) *Group {
	return &Group{size: size}
}

// Comm returns the communicator of one rank.
func (g *Group) Comm(rank int) Communicator {
	return &localComm{group: g, rank: rank}
}

func (g *Group) gather(ctx context.Context, rank int, local IndexSets) ([]IndexSets, error) {
	g.mu.Lock()
	if g.round == nil {
		g.round = &round{sets: make([]IndexSets, g.size), done: make(chan struct{})}
	}
	r := g.round
	r.sets[rank] = local
	r.arrived++
	if r.arrived == g.size {
		g.round = nil
		close(r.done)
	}
	g.mu.Unlock()

	select {
	case <-r.done:
		return r.sets, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type localComm struct {
	group *Group
	rank  int
}

func (c *localComm) Rank() int { return c.rank }
func (c *localComm) Size() int { return c.group.size }

func (c *localComm) AllGather(ctx context.Context, local IndexSets) ([]IndexSets, error) {
	if c.rank < 0 || c.rank >= c.group.size {
		return nil, fmt.Errorf("rank %d outside group of %d", c.rank, c.group.size)
	}
	return c.group.gather(ctx, c.rank, local)
}
