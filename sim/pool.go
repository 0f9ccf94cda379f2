package sim

import (
	"fmt"
	"sort"
)

// ResourcePool owns all Machine entities, partitioned by machine type, and
// the per-type FIFO wait queues of pending step requests. It is pure state:
// event scheduling on acquire/release is driven by the Simulator.
type ResourcePool struct {
	byType  map[string][]*Machine
	byID    map[string]*Machine
	waiting map[string]*requestQueue
	order   []string // machine type iteration order, for deterministic walks
}

// NewResourcePool builds one machine per unit of capacity. Machine IDs are
// derived from type and index ("M-Etch-03") so a fixed config always yields
// the same park.
func NewResourcePool(cfg *ScenarioConfig) *ResourcePool {
	p := &ResourcePool{
		byType:  make(map[string][]*Machine),
		byID:    make(map[string]*Machine),
		waiting: make(map[string]*requestQueue),
	}

	for _, mt := range sortedTypes(cfg.Capacity) {
		count := cfg.Capacity[mt]
		p.order = append(p.order, mt)
		p.waiting[mt] = &requestQueue{}
		for i := 1; i <= count; i++ {
			m := &Machine{
				ID:    fmt.Sprintf("M-%s-%02d", mt, i),
				Type:  mt,
				State: MachineStateIdle,
			}
			p.byType[mt] = append(p.byType[mt], m)
			p.byID[m.ID] = m
		}
	}
	return p
}

// Machines returns all machines of a type in creation order.
func (p *ResourcePool) Machines(machineType string) []*Machine {
	return p.byType[machineType]
}

// AllMachines walks every machine in deterministic type-then-index order.
func (p *ResourcePool) AllMachines() []*Machine {
	var out []*Machine
	for _, mt := range p.order {
		out = append(out, p.byType[mt]...)
	}
	return out
}

// MachineByID returns the machine with the given ID, or nil.
func (p *ResourcePool) MachineByID(id string) *Machine {
	return p.byID[id]
}

// Acquire returns an idle machine of the requested type, or nil when none is
// available. Tie-break is earliest-created, which is stable for a fixed
// configuration. The caller owns the machine until Release.
func (p *ResourcePool) Acquire(machineType string) *Machine {
	for _, m := range p.byType[machineType] {
		if m.State == MachineStateIdle {
			return m
		}
	}
	return nil
}

// Enqueue appends a step request to its machine type's FIFO wait queue.
func (p *ResourcePool) Enqueue(machineType string, req *StepRequest) {
	p.waiting[machineType].enqueue(req)
}

// EnqueueFront puts a step request at the head of its type's wait queue.
// Interrupted steps retry from here once a machine frees up.
func (p *ResourcePool) EnqueueFront(machineType string, req *StepRequest) {
	p.waiting[machineType].prependFront(req)
}

// NextWaiting pops the oldest queued request for a type, or nil.
func (p *ResourcePool) NextWaiting(machineType string) *StepRequest {
	return p.waiting[machineType].dequeue()
}

// WaitingLen reports the wait-queue depth for a machine type.
func (p *ResourcePool) WaitingLen(machineType string) int {
	return p.waiting[machineType].len()
}

// TotalWaiting reports queued step requests across all machine types.
func (p *ResourcePool) TotalWaiting() int {
	n := 0
	for _, mt := range p.order {
		n += p.waiting[mt].len()
	}
	return n
}

// Release transitions a busy machine back to idle. Releasing a machine that
// was never acquired is a logic defect, not a runtime condition.
func (p *ResourcePool) Release(m *Machine) {
	if m.State != MachineStateBusy {
		panic(&InvariantViolation{
			Op:     "ResourcePool.Release",
			Detail: fmt.Sprintf("machine %s released in state %s", m.ID, m.State),
		})
	}
	m.State = MachineStateIdle
	m.current = nil
}

func sortedTypes(capacity map[string]int) []string {
	types := make([]string, 0, len(capacity))
	for mt := range capacity {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}
