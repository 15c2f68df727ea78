package main

import (
	"bytes"
	"encoding/hex"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

const testSeed = "000102030405060708090a0b0c0d0e0f"

func TestDeriveAccount(t *testing.T) {
	seed, err := hex.DecodeString(testSeed)
	require.NoError(t, err)

	seen := make(map[string]string)
	for _, path := range []string{"m/44'/501'/0'/0'", "m/44'/501'/1'/0'", "m/44'/501'/2'/0'"} {
		t.Run(path, func(t *testing.T) {
			acc, err := deriveAccount(seed, path)
			require.NoError(t, err)

			again, err := deriveAccount(seed, path)
			require.NoError(t, err)
			require.Equal(t, acc.PublicKey, again.PublicKey)

			// The public key must match the private key seed.
			pub := ed25519.NewKeyFromSeed(acc.PrivateKey[:32]).Public().(ed25519.PublicKey)
			require.Equal(t, []byte(pub), acc.PublicKey.Bytes())

			b58 := acc.PublicKey.ToBase58()
			if other, ok := seen[b58]; ok {
				t.Fatalf("path %s derived the same key as %s", path, other)
			}
			seen[b58] = path
		})
	}
}

func TestDeriveAccountInvalidPath(t *testing.T) {
	seed, err := hex.DecodeString(testSeed)
	require.NoError(t, err)
	_, err = deriveAccount(seed, "m/44'/501'/0")
	require.Error(t, err)
}

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "id.json")

	var out bytes.Buffer
	require.NoError(t, cmdKeygen(nil, &out, []string{"-keypair", keyPath, "-seed", testSeed}))

	seed, _ := hex.DecodeString(testSeed)
	want, err := deriveAccount(seed, defaultDerivationPath)
	require.NoError(t, err)
	require.Equal(t, want.PublicKey.ToBase58(), strings.TrimSpace(out.String()))

	out.Reset()
	require.NoError(t, cmdPubkey(nil, &out, []string{"-keypair", keyPath}))
	require.Equal(t, want.PublicKey.ToBase58(), strings.TrimSpace(out.String()))

	// Existing keypair must never be overwritten.
	require.Error(t, cmdKeygen(nil, &out, []string{"-keypair", keyPath}))
	acc, err := readKeypair(keyPath)
	require.NoError(t, err)
	require.Equal(t, want.PublicKey, acc.PublicKey)
}

func TestKeypairFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	acc := types.NewAccount()
	require.NoError(t, writeKeypair(path, acc))

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("[")))

	got, err := readKeypair(path)
	require.NoError(t, err)
	require.Equal(t, acc.PublicKey, got.PublicKey)
	require.Equal(t, acc.PrivateKey, got.PrivateKey)
}

func TestDecodeKeypairJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr bool
	}{
		"not json":       {raw: "zzz", wantErr: true},
		"too short":      {raw: "[1,2,3]", wantErr: true},
		"byte too large": {raw: "[256" + strings.Repeat(",0", 63) + "]", wantErr: true},
		"negative byte":  {raw: "[-1" + strings.Repeat(",0", 63) + "]", wantErr: true},
		"valid":          {raw: "[1" + strings.Repeat(",2", 63) + "]", wantErr: false},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			key, err := decodeKeypairJSON([]byte(tc.raw))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, key, 64)
			require.Equal(t, byte(1), key[0])
			require.Equal(t, byte(2), key[63])
		})
	}
}
