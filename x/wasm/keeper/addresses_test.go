package keeper

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/CosmWasm/wasmsim/testutil"
)

func TestBuildContractAddressClassic(t *testing.T) {
	creator := testutil.RandomAccountAddress(t)
	otherCreator := testutil.RandomAccountAddress(t)

	seen := make(map[string]struct{})
	for codeID := uint64(1); codeID <= 3; codeID++ {
		for instanceID := uint64(1); instanceID <= 50; instanceID++ {
			for _, c := range []sdk.AccAddress{creator, otherCreator} {
				addr := BuildContractAddressClassic(codeID, instanceID, c)
				require.Len(t, addr, ContractAddrLen)
				require.NoError(t, sdk.VerifyAddressFormat(addr))
				_, exists := seen[string(addr)]
				require.False(t, exists, "duplicate address for code %d instance %d", codeID, instanceID)
				seen[string(addr)] = struct{}{}
			}
		}
	}
	// deterministic
	assert.Equal(t, BuildContractAddressClassic(1, 1, creator), BuildContractAddressClassic(1, 1, creator))
}

func TestBuildContractAddressPredictable(t *testing.T) {
	creator := testutil.RandomAccountAddress(t)
	checksum := DefaultChecksum(1)
	base := BuildContractAddressPredictable(checksum, creator, []byte("my salt"), nil)

	specs := map[string]struct {
		checksum []byte
		creator  sdk.AccAddress
		salt     []byte
		msg      []byte
		expSame  bool
	}{
		"same input": {
			checksum: checksum, creator: creator, salt: []byte("my salt"),
			expSame: true,
		},
		"different salt": {
			checksum: checksum, creator: creator, salt: []byte("other salt"),
		},
		"different checksum": {
			checksum: DefaultChecksum(2), creator: creator, salt: []byte("my salt"),
		},
		"different creator": {
			checksum: checksum, creator: testutil.RandomAccountAddress(t), salt: []byte("my salt"),
		},
		"with init msg": {
			checksum: checksum, creator: creator, salt: []byte("my salt"), msg: []byte(`{}`),
		},
		"with empty init msg": {
			checksum: checksum, creator: creator, salt: []byte("my salt"), msg: []byte{},
		},
		"salt and msg boundary shifted": {
			checksum: checksum, creator: creator, salt: []byte("my"), msg: []byte(" salt"),
		},
		"max salt size": {
			checksum: checksum, creator: creator, salt: bytes.Repeat([]byte("x"), 64),
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			gotAddr := BuildContractAddressPredictable(spec.checksum, spec.creator, spec.salt, spec.msg)
			require.Len(t, gotAddr, ContractAddrLen)
			require.NoError(t, sdk.VerifyAddressFormat(gotAddr))
			if spec.expSame {
				assert.Equal(t, base, gotAddr)
			} else {
				assert.NotEqual(t, base, gotAddr)
			}
		})
	}
}

func TestPredictableAddressGeneratorIgnoresMsgUnlessFixed(t *testing.T) {
	creator := testutil.RandomAccountAddress(t)
	checksum := DefaultChecksum(1)
	salt := []byte("my salt")
	msg := []byte(`{"foo":"bar"}`)

	unfixed := PredictableAddressGenerator(creator, salt, msg, false)(1, 1, checksum)
	assert.Equal(t, BuildContractAddressPredictable(checksum, creator, salt, nil), unfixed)
	// sequences do not change the address
	assert.Equal(t, unfixed, PredictableAddressGenerator(creator, salt, msg, false)(2, 99, checksum))

	fixed := PredictableAddressGenerator(creator, salt, msg, true)(1, 1, checksum)
	assert.Equal(t, BuildContractAddressPredictable(checksum, creator, salt, msg), fixed)
	assert.NotEqual(t, unfixed, fixed)
}
