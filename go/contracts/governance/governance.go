// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package governance provides the native on-chain governance contract.
// Stakers create proposals, vote with their stake, and execute approved
// proposals, which may update chain parameters, record approved contract
// upgrades, spend from the treasury, and pause or resume contracts.
//
// All proposal state is kept in storage cells under the contract address;
// the contract instance itself is immutable.
package governance

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/holiman/uint256"
)

const (
	Name    = "governance"
	Version = 1

	// MinVotingPeriod is the minimum duration of a vote in milliseconds.
	MinVotingPeriod uint64 = 7 * 24 * 60 * 60 * 1000

	// QuorumPercent is the share of the total stake that needs to vote.
	QuorumPercent = 30

	// ApprovalThresholdPercent is the share of cast votes required in favor.
	ApprovalThresholdPercent = 66
)

const (
	createProposalGas hclaw.Gas = 50_000
	voteGas           hclaw.Gas = 30_000
	executeGas        hclaw.Gas = 50_000
	actionGas         hclaw.Gas = 10_000
)

// Event topics emitted by the contract.
const (
	TopicProposalCreated  = "ProposalCreated"
	TopicVoteCast         = "VoteCast"
	TopicProposalExecuted = "ProposalExecuted"
)

// ContractId is the fixed id under which governance is installed at genesis.
var ContractId = hclaw.HashData([]byte("hardclaw.governance.v1"))

func init() {
	hclaw.RegisterNativeContract(Name, Version, New)
}

// Marker returns the deployment payload of the governance contract.
func Marker() []byte {
	return []byte(hclaw.NativeMarker(Name, Version))
}

type contract struct {
	id hclaw.Id
}

// New creates an instance of the governance contract bound to the given id.
func New(id hclaw.Id) hclaw.Contract {
	return contract{id: id}
}

func (c contract) Id() hclaw.Id {
	return c.id
}

func (contract) Name() string {
	return Name
}

func (contract) Version() uint32 {
	return Version
}

func (contract) IsUpgradeable() bool {
	return true
}

func (contract) OnDeploy(hclaw.ContractState, []byte) error {
	return nil
}

func (c contract) Execute(state hclaw.ContractState, tx *hclaw.Transaction) (hclaw.ExecutionResult, error) {
	var call Call
	if err := rlp.DecodeBytes(tx.Input, &call); err != nil {
		return hclaw.ExecutionResult{}, hclaw.InvalidTransaction("Failed to parse action: %v", err)
	}

	var (
		gas    hclaw.Gas
		output []byte
		err    error
	)
	switch call.Method {
	case CreateProposal:
		var id hclaw.Hash
		id, err = c.createProposal(state, tx, call)
		output = id[:]
		gas = createProposalGas
	case Vote:
		err = c.vote(state, tx, call.ProposalId, call.InFavor)
		gas = voteGas
	case Execute:
		var actions int
		actions, err = c.executeProposal(state, tx, call.ProposalId)
		gas = executeGas + hclaw.Gas(actions)*actionGas
	default:
		return hclaw.ExecutionResult{}, hclaw.InvalidTransaction("Unknown governance method %d", call.Method)
	}
	if err != nil {
		return hclaw.ExecutionResult{}, err
	}

	return hclaw.ExecutionResult{
		NewStateRoot: state.ComputeStateRoot(),
		GasUsed:      gas,
		Events:       state.Events(),
		Output:       output,
	}, nil
}

func (contract) Verify(state hclaw.ContractState, _ *hclaw.Transaction, result hclaw.ExecutionResult) (bool, error) {
	return hclaw.VerifyRoot(state, result), nil
}

func (c contract) createProposal(state hclaw.ContractState, tx *hclaw.Transaction, call Call) (hclaw.Hash, error) {
	now := tx.Timestamp
	if call.VotingEndsAt <= now {
		return hclaw.Hash{}, hclaw.ExecutionFailed("Voting end time must be in the future")
	}
	if call.VotingEndsAt-now < MinVotingPeriod {
		return hclaw.Hash{}, hclaw.ExecutionFailed("Voting period must be at least %d days", MinVotingPeriod/(24*60*60*1000))
	}
	for i, action := range call.Actions {
		if action.Kind < ParameterUpdate || action.Kind > Resume {
			return hclaw.Hash{}, hclaw.InvalidTransaction("Unknown action kind %d at position %d", action.Kind, i)
		}
	}

	proposal := Proposal{
		Proposer:     tx.SenderAddress,
		Title:        call.Title,
		Description:  call.Description,
		Actions:      call.Actions,
		CreatedAt:    now,
		VotingEndsAt: call.VotingEndsAt,
		Status:       Active,
	}
	encoded, err := rlp.EncodeToBytes(proposal)
	if err != nil {
		return hclaw.Hash{}, hclaw.ExecutionFailed("Serialization failed: %v", err)
	}
	proposal.Id = hclaw.HashData(encoded, tx.Id[:])

	if _, found := state.StorageRead(c.address(), proposalKey(proposal.Id)); found {
		return hclaw.Hash{}, hclaw.ExecutionFailed("Proposal already exists")
	}
	if err := c.writeProposal(state, proposal); err != nil {
		return hclaw.Hash{}, err
	}

	if err := c.emit(state, TopicProposalCreated, proposalCreatedEvent{ProposalId: proposal.Id, Title: proposal.Title}); err != nil {
		return hclaw.Hash{}, err
	}
	return proposal.Id, nil
}

func (c contract) vote(state hclaw.ContractState, tx *hclaw.Transaction, id hclaw.Hash, inFavor bool) error {
	proposal, err := c.readProposal(state, id)
	if err != nil {
		return err
	}
	if proposal.Status != Active {
		return hclaw.ExecutionFailed("Proposal is not active")
	}
	if tx.Timestamp >= proposal.VotingEndsAt {
		return hclaw.ExecutionFailed("Voting period has ended")
	}

	voter := tx.SenderAddress
	key := voteKey(id, voter)
	if _, found := state.StorageRead(c.address(), key); found {
		return hclaw.ExecutionFailed("Already voted on this proposal")
	}
	power := state.Staked(voter)
	if power.IsZero() {
		return hclaw.ExecutionFailed("No voting power: %v has no stake", voter)
	}

	var overflow bool
	if inFavor {
		proposal.YesVotes, overflow = proposal.YesVotes.Add(power)
		state.StorageWrite(c.address(), key, []byte{1})
	} else {
		proposal.NoVotes, overflow = proposal.NoVotes.Add(power)
		state.StorageWrite(c.address(), key, []byte{0})
	}
	if overflow {
		return hclaw.ExecutionFailed("Vote tally overflow")
	}
	if err := c.writeProposal(state, proposal); err != nil {
		return err
	}
	return c.emit(state, TopicVoteCast, voteCastEvent{ProposalId: id, Voter: voter, InFavor: inFavor, Power: power})
}

// executeProposal applies the actions of an approved proposal. Actions
// modify system cells, so only the instance installed under ContractId may
// execute them; instances deployed by users can hold votes but not act.
func (c contract) executeProposal(state hclaw.ContractState, tx *hclaw.Transaction, id hclaw.Hash) (int, error) {
	if c.id != ContractId {
		return 0, &hclaw.UnauthorizedError{Reason: fmt.Sprintf("governance instance %v can not execute proposals", c.id)}
	}
	proposal, err := c.readProposal(state, id)
	if err != nil {
		return 0, err
	}
	if proposal.Status == Executed {
		return 0, hclaw.ExecutionFailed("Proposal already executed")
	}
	if proposal.Status != Active {
		return 0, hclaw.ExecutionFailed("Proposal is not active")
	}
	if tx.Timestamp < proposal.VotingEndsAt {
		return 0, hclaw.ExecutionFailed("Voting period not yet ended")
	}

	yes := proposal.YesVotes.ToUint256()
	total := new(uint256.Int).Add(yes, proposal.NoVotes.ToUint256())
	quorum := new(uint256.Int).Mul(state.TotalStaked().ToUint256(), uint256.NewInt(QuorumPercent))
	quorum.Div(quorum, uint256.NewInt(100))
	if total.Lt(quorum) {
		return 0, hclaw.ExecutionFailed("Quorum not reached")
	}

	approval := new(uint256.Int)
	if !total.IsZero() {
		approval.Mul(yes, uint256.NewInt(100))
		approval.Div(approval, total)
	}
	if approval.Lt(uint256.NewInt(ApprovalThresholdPercent)) {
		return 0, hclaw.ExecutionFailed("Approval threshold not met")
	}

	for _, action := range proposal.Actions {
		if err := applyAction(state, action); err != nil {
			return 0, err
		}
	}

	proposal.Status = Executed
	if err := c.writeProposal(state, proposal); err != nil {
		return 0, err
	}
	state.EmitEvent(hclaw.Event{ContractId: c.id, Topic: TopicProposalExecuted, Data: id[:]})
	return len(proposal.Actions), nil
}

func applyAction(state hclaw.ContractState, action Action) error {
	system := hclaw.SystemAddress
	switch action.Kind {
	case ParameterUpdate:
		state.StorageWrite(system, hclaw.ParamKey(action.Key), action.Value)
	case ContractUpgrade:
		hash := hclaw.HashData(action.Value)
		state.StorageWrite(system, hclaw.UpgradeKey(action.ContractId), action.Value)
		state.StorageWrite(system, hclaw.UpgradeHashKey(action.ContractId), hash[:])
	case TreasurySpend:
		if err := state.Transfer(system, action.Recipient, action.Amount); err != nil {
			return err
		}
		state.StorageWrite(system, hclaw.TreasurySpendKey(action.Recipient), []byte(action.Text))
	case EmergencyPause:
		reason := action.Text
		if reason == "" {
			reason = "paused by governance"
		}
		state.StorageWrite(system, hclaw.PausedKey(action.ContractId), []byte(reason))
	case Resume:
		state.StorageDelete(system, hclaw.PausedKey(action.ContractId))
	default:
		return hclaw.ExecutionFailed("Unknown action kind %v", action.Kind)
	}
	return nil
}

func (c contract) address() hclaw.Address {
	return hclaw.ContractAddress(c.id)
}

func (c contract) readProposal(state hclaw.ContractState, id hclaw.Hash) (Proposal, error) {
	proposal, found, err := ReadProposal(state, c.id, id)
	if err != nil {
		return Proposal{}, hclaw.ExecutionFailed("Corrupted proposal %v: %v", id, err)
	}
	if !found {
		return Proposal{}, hclaw.ExecutionFailed("Proposal not found")
	}
	return proposal, nil
}

func (c contract) writeProposal(state hclaw.ContractState, proposal Proposal) error {
	data, err := rlp.EncodeToBytes(proposal)
	if err != nil {
		return hclaw.ExecutionFailed("Serialization failed: %v", err)
	}
	state.StorageWrite(c.address(), proposalKey(proposal.Id), data)
	return nil
}

func (c contract) emit(state hclaw.ContractState, topic string, payload any) error {
	data, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return hclaw.ExecutionFailed("Serialization failed: %v", err)
	}
	state.EmitEvent(hclaw.Event{ContractId: c.id, Topic: topic, Data: data})
	return nil
}

// StorageReader is the read access to storage cells needed to inspect
// governance state.
type StorageReader interface {
	StorageRead(contract hclaw.Address, key []byte) ([]byte, bool)
}

// ReadProposal loads the proposal with the given id from the storage of the
// governance contract with the given contract id.
func ReadProposal(state StorageReader, contractId hclaw.Id, id hclaw.Hash) (Proposal, bool, error) {
	data, found := state.StorageRead(hclaw.ContractAddress(contractId), proposalKey(id))
	if !found {
		return Proposal{}, false, nil
	}
	var res Proposal
	if err := rlp.DecodeBytes(data, &res); err != nil {
		return Proposal{}, true, err
	}
	return res, true, nil
}

func proposalKey(id hclaw.Hash) []byte {
	return []byte("proposal:" + hex.EncodeToString(id[:]))
}

func voteKey(id hclaw.Hash, voter hclaw.Address) []byte {
	return []byte("vote:" + hex.EncodeToString(id[:]) + ":" + hex.EncodeToString(voter[:]))
}
