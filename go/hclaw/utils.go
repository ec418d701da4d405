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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return bytesToText(a[:])
}

func (a *Address) UnmarshalText(data []byte) error {
	return textToBytes(a[:], data)
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return bytesToText(h[:])
}

func (h *Hash) UnmarshalText(data []byte) error {
	return textToBytes(h[:], data)
}

func (d Data) String() string {
	return hexutil.Encode(d)
}

func (d Data) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(d)), nil
}

func (d *Data) UnmarshalText(data []byte) error {
	res, err := hexutil.Decode(string(data))
	if err != nil {
		return err
	}
	*d = res
	return nil
}

// NewAmount creates an Amount of the given number of raw units.
func NewAmount(raw uint64) (result Amount) {
	binary.BigEndian.PutUint64(result[24:32], raw)
	return
}

// Tokens creates an Amount of the given number of whole tokens.
func Tokens(whole uint64) Amount {
	res := new(uint256.Int).Mul(
		new(uint256.Int).SetUint64(whole),
		new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(TokenDecimals)),
	)
	return AmountFromUint256(res)
}

// AmountFromUint256 converts a *uint256.Int to an Amount.
// If the input is nil, it returns 0.
func AmountFromUint256(value *uint256.Int) (result Amount) {
	if value == nil {
		return result
	}
	return value.Bytes32()
}

func (a Amount) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(a[:])
}

func (a Amount) IsZero() bool {
	return a == Amount{}
}

func (a Amount) Cmp(o Amount) int {
	return bytes.Compare(a[:], o[:])
}

// Add returns a+o and whether the addition overflowed.
func (a Amount) Add(o Amount) (Amount, bool) {
	res, overflow := new(uint256.Int).AddOverflow(a.ToUint256(), o.ToUint256())
	return AmountFromUint256(res), overflow
}

// Sub returns a-o and whether the subtraction underflowed.
func (a Amount) Sub(o Amount) (Amount, bool) {
	res, underflow := new(uint256.Int).SubOverflow(a.ToUint256(), o.ToUint256())
	return AmountFromUint256(res), underflow
}

// Scale returns a*s and whether the multiplication overflowed.
func (a Amount) Scale(s uint64) (Amount, bool) {
	res, overflow := new(uint256.Int).MulOverflow(a.ToUint256(), new(uint256.Int).SetUint64(s))
	return AmountFromUint256(res), overflow
}

// MaxAmount returns the largest representable amount.
func MaxAmount() Amount {
	return AmountFromUint256(new(uint256.Int).SetAllOne())
}

// String returns the raw amount in decimal notation.
func (a Amount) String() string {
	return a.ToUint256().Dec()
}

// Format renders the amount in whole tokens, e.g. "12.5".
func (a Amount) Format() string {
	raw := a.ToUint256().Dec()
	if len(raw) <= TokenDecimals {
		raw = strings.Repeat("0", TokenDecimals-len(raw)+1) + raw
	}
	whole, frac := raw[:len(raw)-TokenDecimals], strings.TrimRight(raw[len(raw)-TokenDecimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(data []byte) error {
	value, err := uint256.FromDecimal(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", data, err)
	}
	*a = AmountFromUint256(value)
	return nil
}

func (g Gas) String() string {
	return fmt.Sprintf("%d", uint64(g))
}

func bytesToText(data []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return err
	}
	if want, got := len(trg), len(data); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(trg[:], data)
	return nil
}
