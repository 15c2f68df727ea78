package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/mintgatetest/assert"
	"github.com/iov-one/mintgate/runtime"
)

func TestGenesisValidate(t *testing.T) {
	key := types.NewAccount().PublicKey.ToBase58()

	cases := map[string]struct {
		gen          Genesis
		wantChainID  *errors.Error
		wantRent     *errors.Error
		wantAccounts *errors.Error
	}{
		"valid": {
			gen: Genesis{
				ChainID:  "mint-chain",
				Rent:     runtime.DefaultRent,
				Accounts: []GenesisAccount{{PubKey: key, Lamports: 1}},
			},
		},
		"invalid chain id": {
			gen:         Genesis{ChainID: "x", Rent: runtime.DefaultRent},
			wantChainID: errors.ErrInput,
		},
		"invalid rent": {
			gen:      Genesis{ChainID: "mint-chain"},
			wantRent: errors.ErrAmount,
		},
		"bad account key": {
			gen: Genesis{
				ChainID:  "mint-chain",
				Rent:     runtime.DefaultRent,
				Accounts: []GenesisAccount{{PubKey: "nope", Lamports: 1}},
			},
			wantAccounts: errors.ErrInput,
		},
		"duplicated account": {
			gen: Genesis{
				ChainID: "mint-chain",
				Rent:    runtime.DefaultRent,
				Accounts: []GenesisAccount{
					{PubKey: key, Lamports: 1},
					{PubKey: key, Lamports: 2},
				},
			},
			wantAccounts: errors.ErrDuplicate,
		},
		"unfunded account": {
			gen: Genesis{
				ChainID:  "mint-chain",
				Rent:     runtime.DefaultRent,
				Accounts: []GenesisAccount{{PubKey: key}},
			},
			wantAccounts: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.gen.Validate()
			assert.FieldError(t, err, "ChainID", tc.wantChainID)
			assert.FieldError(t, err, "Rent", tc.wantRent)
			assert.FieldError(t, err, "Accounts", tc.wantAccounts)
		})
	}
}

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	key := types.NewAccount().PublicKey.ToBase58()
	path := filepath.Join(dir, "genesis.json")
	content := `{
		"chain_id": "mint-chain",
		"rent": {"lamports_per_byte_year": 3480, "exemption_threshold": 2, "burn_percent": 50},
		"accounts": [{"pubkey": "` + key + `", "lamports": 5}]
	}`
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	require.Equal(t, "mint-chain", gen.ChainID)
	require.Equal(t, runtime.DefaultRent, gen.Rent)
	require.Equal(t, []GenesisAccount{{PubKey: key, Lamports: 5}}, gen.Accounts)

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	require.True(t, errors.ErrInput.Is(err))

	require.NoError(t, ioutil.WriteFile(path, []byte(`{"chain_id": "x"}`), 0600))
	_, err = LoadGenesis(path)
	require.Error(t, err)
}
