package tokenprog

import (
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/mintgatetest"
)

func TestMintLayout(t *testing.T) {
	Convey("Given an initialized mint", t, func() {
		authority := mintgatetest.NewKey()
		m := Mint{MintAccount: token.MintAccount{
			MintAuthority:   &authority,
			Supply:          7,
			Decimals:        0,
			IsInitialized:   true,
			FreezeAuthority: &authority,
		}}
		raw := m.Marshal()

		Convey("It is serialized into 82 bytes", func() {
			So(len(raw), ShouldEqual, MintSize)
			So(binary.LittleEndian.Uint32(raw[0:4]), ShouldEqual, 1)
			So(binary.LittleEndian.Uint64(raw[36:44]), ShouldEqual, 7)
			So(raw[45], ShouldEqual, 1)
		})

		Convey("It can be decoded back", func() {
			got, err := UnmarshalMint(raw)
			So(err, ShouldBeNil)
			So(*got.MintAuthority, ShouldResemble, authority)
			So(*got.FreezeAuthority, ShouldResemble, authority)
			So(got.Supply, ShouldEqual, 7)
			So(got.IsInitialized, ShouldBeTrue)
		})

		Convey("A missing freeze authority is a zero option", func() {
			m.FreezeAuthority = nil
			got, err := UnmarshalMint(m.Marshal())
			So(err, ShouldBeNil)
			So(got.FreezeAuthority, ShouldBeNil)
		})

		Convey("A broken option tag is rejected", func() {
			raw[0] = 2
			_, err := UnmarshalMint(raw)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("A non boolean initialized flag is rejected", func() {
			raw[45] = 2
			_, err := UnmarshalMint(raw)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("A wrong size is rejected", func() {
			_, err := UnmarshalMint(raw[:81])
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})
	})
}

func TestTokenAccountLayout(t *testing.T) {
	Convey("Given a token account", t, func() {
		a := Account{TokenAccount: token.TokenAccount{
			Mint:   mintgatetest.NewKey(),
			Owner:  mintgatetest.NewKey(),
			Amount: 1,
			State:  AccountInitialized,
		}}
		raw := a.Marshal()

		Convey("It is serialized into 165 bytes", func() {
			So(len(raw), ShouldEqual, AccountSize)
			So(common.PublicKeyFromBytes(raw[0:32]), ShouldResemble, a.Mint)
			So(raw[108], ShouldEqual, byte(AccountInitialized))
		})

		Convey("It can be decoded back", func() {
			got, err := UnmarshalAccount(raw)
			So(err, ShouldBeNil)
			So(got.Owner, ShouldResemble, a.Owner)
			So(got.Amount, ShouldEqual, 1)
			So(got.Delegate, ShouldBeNil)
			So(got.IsNative, ShouldBeNil)
		})

		Convey("A bad is-native tag is rejected", func() {
			raw[109] = 2
			_, err := UnmarshalAccount(raw)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("An unknown state is rejected", func() {
			raw[108] = 3
			_, err := UnmarshalAccount(raw)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})
	})
}
