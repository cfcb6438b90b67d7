// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package action

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/rentnet"
)

func TestSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := rentnet.Address(crypto.PubkeyToAddress(key.PublicKey))

	unsigned := NewBuilder(&Rent{MachineID: "m", GPUNum: 2, Duration: 100}).ChainTag(0x4a).Nonce(7).MustBuild()
	_, err = unsigned.Signer()
	assert.Error(t, err)
	assert.Error(t, unsigned.Validate(0x4a))

	signed := MustSign(unsigned, key)
	signer, err := signed.Signer()
	require.NoError(t, err)
	assert.Equal(t, addr, signer)
	assert.Equal(t, unsigned.SigningHash(), signed.SigningHash())
	assert.NoError(t, signed.Validate(0x4a))
	assert.Error(t, signed.Validate(0x01))

	other := MustSign(NewBuilder(&Rent{MachineID: "m", GPUNum: 2, Duration: 100}).ChainTag(0x4a).Nonce(8).MustBuild(), key)
	assert.NotEqual(t, signed.ID(), other.ID())
}

func TestEncodeDecode(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	a := MustSign(NewBuilder(&SubmitReportRaw{ReportID: 3, IsFault: true, Detail: "fan", Salt: []byte("s")}).Nonce(1).MustBuild(), key)

	data, err := rlp.EncodeToBytes(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(data)), a.Size())

	var decoded Action
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, a.ID(), decoded.ID())
	assert.Equal(t, KindSubmitReportRaw, decoded.Kind())

	p, err := decoded.Payload()
	require.NoError(t, err)
	raw := p.(*SubmitReportRaw)
	assert.Equal(t, uint64(3), raw.ReportID)
	assert.True(t, raw.IsFault)
	assert.Equal(t, "fan", raw.Detail)
}

func TestEveryKindDecodes(t *testing.T) {
	for k := KindTransfer; k < kindEnd; k++ {
		assert.NotContains(t, k.String(), "kind(", "kind %d has no name", k)
		newPayload, ok := payloadFactory[k]
		require.True(t, ok, "kind %s has no payload", k)
		p := newPayload()
		assert.Equal(t, k, p.Kind())

		data, err := rlp.EncodeToBytes(p)
		require.NoError(t, err)
		_, err = DecodePayload(k, data)
		assert.NoError(t, err, k.String())
	}
	_, err := DecodePayload(kindEnd, nil)
	assert.Error(t, err)
}

func TestDecodeGarbage(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 200 {
		var kind Kind
		var data []byte
		f.Fuzz(&kind)
		f.Fuzz(&data)
		assert.NotPanics(t, func() { _, _ = DecodePayload(kind, data) })
	}
}

func TestRootHash(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	a := MustSign(NewBuilder(&Chill{}).Nonce(1).MustBuild(), key)
	b := MustSign(NewBuilder(&UndoChill{}).Nonce(2).MustBuild(), key)

	assert.Equal(t, Actions{a, b}.RootHash(), Actions{a, b}.RootHash())
	assert.NotEqual(t, Actions{a, b}.RootHash(), Actions{b, a}.RootHash())
	assert.Equal(t, rentnet.Blake2b(), Actions{}.RootHash())
}
