// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rentnet

import (
	"errors"
	"strings"
)

// MaxMachineIDLength bounds the length of a machine id.
const MaxMachineIDLength = 128

// MachineID is the opaque identifier of a rentable machine.
type MachineID string

// Bytes returns byte slice form of machine id.
func (id MachineID) Bytes() []byte {
	return []byte(id)
}

func (id MachineID) String() string {
	return string(id)
}

// ParseMachineID validates a machine id.
func ParseMachineID(s string) (MachineID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty machine id")
	}
	if len(s) > MaxMachineIDLength {
		return "", errors.New("machine id too long")
	}
	return MachineID(s), nil
}
