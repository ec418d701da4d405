// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package hclaw

import (
	"bytes"
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

// Registry maps contract ids to contract instances. It is process-local and
// not part of the consensus state; nodes with equal storage reconstruct
// equivalent registries by replaying deployments. A Registry is safe for
// concurrent use.
type Registry struct {
	contracts map[Id]Contract
	mutex     sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{contracts: map[Id]Contract{}}
}

// Register adds the given contract under its id. An existing registration
// for the same id is replaced.
func (r *Registry) Register(contract Contract) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.contracts[contract.Id()] = contract
}

// Unregister removes the registration of the given id. It is only intended
// for discarding registrations of deployments that were rolled back.
func (r *Registry) Unregister(id Id) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.contracts, id)
}

// Get returns the contract registered under the given id, if any.
func (r *Registry) Get(id Id) (Contract, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	res, found := r.contracts[id]
	return res, found
}

func (r *Registry) Contains(id Id) bool {
	_, found := r.Get(id)
	return found
}

// List returns the ids of all registered contracts in ascending order.
func (r *Registry) List() []Id {
	r.mutex.RLock()
	res := maps.Keys(r.contracts)
	r.mutex.RUnlock()
	slices.SortFunc(res, func(a, b Id) int { return bytes.Compare(a[:], b[:]) })
	return res
}

func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.contracts)
}
