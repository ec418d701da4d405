// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package governance

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/hapticPaper/hardclaw/go/hclaw"
)

// ActionKind enumerates the effects an approved proposal can have.
type ActionKind uint8

const (
	ParameterUpdate ActionKind = iota + 1
	ContractUpgrade
	TreasurySpend
	EmergencyPause
	Resume
)

func (k ActionKind) String() string {
	switch k {
	case ParameterUpdate:
		return "ParameterUpdate"
	case ContractUpgrade:
		return "ContractUpgrade"
	case TreasurySpend:
		return "TreasurySpend"
	case EmergencyPause:
		return "EmergencyPause"
	case Resume:
		return "Resume"
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// Action is a single effect of a proposal. Only the fields relevant for the
// kind are used:
//
//	ParameterUpdate: Key, Value
//	ContractUpgrade: ContractId, Value (the new code)
//	TreasurySpend:   Recipient, Amount, Text (the purpose)
//	EmergencyPause:  ContractId, Text (the reason)
//	Resume:          ContractId
type Action struct {
	Kind       ActionKind
	Key        string
	Value      []byte
	ContractId hclaw.Id
	Recipient  hclaw.Address
	Amount     hclaw.Amount
	Text       string
}

// Method selects the operation of a governance call.
type Method uint8

const (
	CreateProposal Method = iota + 1
	Vote
	Execute
)

// Call is the RLP encoded transaction input of the governance contract.
// CreateProposal uses Title, Description, Actions and VotingEndsAt; Vote
// uses ProposalId and InFavor; Execute uses ProposalId.
type Call struct {
	Method       Method
	Title        string
	Description  string
	Actions      []Action
	VotingEndsAt uint64 // unix milliseconds
	ProposalId   hclaw.Hash
	InFavor      bool
}

// Encode returns the transaction input for this call.
func (c Call) Encode() []byte {
	res, err := rlp.EncodeToBytes(c)
	if err != nil {
		panic(fmt.Sprintf("failed to encode governance call: %v", err))
	}
	return res
}

// Status is the life-cycle state of a proposal.
type Status uint8

const (
	Active Status = iota + 1
	Passed
	Rejected
	Executed
	ExecutionFailed
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Passed:
		return "Passed"
	case Rejected:
		return "Rejected"
	case Executed:
		return "Executed"
	case ExecutionFailed:
		return "ExecutionFailed"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Proposal is the persisted record of a proposal. Individual votes are kept
// in separate cells to prevent double voting.
type Proposal struct {
	Id           hclaw.Hash
	Proposer     hclaw.Address
	Title        string
	Description  string
	Actions      []Action
	CreatedAt    uint64
	VotingEndsAt uint64
	YesVotes     hclaw.Amount
	NoVotes      hclaw.Amount
	Status       Status
}

type proposalCreatedEvent struct {
	ProposalId hclaw.Hash
	Title      string
}

type voteCastEvent struct {
	ProposalId hclaw.Hash
	Voter      hclaw.Address
	InFavor    bool
	Power      hclaw.Amount
}
