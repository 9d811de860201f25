package steamid

import (
	"errors"
	"fmt"
)

// Bit layout of a 64-bit identifier, most significant field first.
const (
	universeShift = 56
	universeMask  = 0xFF

	accountTypeShift = 52
	accountTypeMask  = 0xF

	instanceShift = 32
	instanceMask  = 0xFFFFF

	accountNumberShift = 1
	accountNumberMask  = 0x7FFFFFFF

	parityMask = 0x1
)

// Universe selects the deployment environment encoded in the top 8 bits.
type Universe uint8

const (
	UniverseInvalid  Universe = 0
	UniversePublic   Universe = 1
	UniverseBeta     Universe = 2
	UniverseInternal Universe = 3
	UniverseDev      Universe = 4
)

// AccountType is the 4-bit account category.
type AccountType uint8

const (
	AccountTypeInvalid        AccountType = 0
	AccountTypeIndividual     AccountType = 1
	AccountTypeMultiseat      AccountType = 2
	AccountTypeGameServer     AccountType = 3
	AccountTypeAnonGameServer AccountType = 4
	AccountTypePending        AccountType = 5
	AccountTypeContentServer  AccountType = 6
	AccountTypeClan           AccountType = 7
	AccountTypeChat           AccountType = 8
	AccountTypeP2PSuperSeeder AccountType = 9
	AccountTypeAnonUser       AccountType = 10
)

var accountTypeNames = map[AccountType]string{
	AccountTypeInvalid:        "invalid",
	AccountTypeIndividual:     "individual",
	AccountTypeMultiseat:      "multiseat",
	AccountTypeGameServer:     "game_server",
	AccountTypeAnonGameServer: "anon_game_server",
	AccountTypePending:        "pending",
	AccountTypeContentServer:  "content_server",
	AccountTypeClan:           "clan",
	AccountTypeChat:           "chat",
	AccountTypeP2PSuperSeeder: "p2p_super_seeder",
	AccountTypeAnonUser:       "anon_user",
}

func (t AccountType) String() string {
	if name, ok := accountTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// baseOffsets holds the id64 base for each account type that can be rebuilt
// from an account number. Types missing here are rejected by ID64.
var baseOffsets = map[AccountType]uint64{
	AccountTypeIndividual: 0x0110000100000000,
	AccountTypeClan:       0x0170000000000000,
}

// ErrUnsupportedAccountType marks an ID64 call for an account type without a
// known base offset.
var ErrUnsupportedAccountType = errors.New("unsupported account type")

// UnsupportedAccountTypeError reports the account type ID64 could not encode.
type UnsupportedAccountTypeError struct {
	AccountType AccountType
}

func (e *UnsupportedAccountTypeError) Error() string {
	return fmt.Sprintf("steamid: %s: %d (%s)", ErrUnsupportedAccountType, uint8(e.AccountType), e.AccountType)
}

func (e *UnsupportedAccountTypeError) Is(target error) bool {
	return target == ErrUnsupportedAccountType
}

// Components is the decoded bit-field form of a 64-bit identifier.
type Components struct {
	Universe      Universe    `json:"universe"`
	AccountType   AccountType `json:"account_type"`
	Instance      uint32      `json:"account_instance"`
	AccountNumber uint32      `json:"account_number"`
	Parity        uint8       `json:"parity"`
}

// Decode splits id64 into its five fields. Every uint64 decodes.
func Decode(id64 uint64) Components {
	return Components{
		Universe:      Universe((id64 >> universeShift) & universeMask),
		AccountType:   AccountType((id64 >> accountTypeShift) & accountTypeMask),
		Instance:      uint32((id64 >> instanceShift) & instanceMask),
		AccountNumber: uint32((id64 >> accountNumberShift) & accountNumberMask),
		Parity:        uint8(id64 & parityMask),
	}
}

// Raw reassembles all five fields into the original 64-bit value.
func (c Components) Raw() uint64 {
	return (uint64(c.Universe)&universeMask)<<universeShift |
		(uint64(c.AccountType)&accountTypeMask)<<accountTypeShift |
		(uint64(c.Instance)&instanceMask)<<instanceShift |
		(uint64(c.AccountNumber)&accountNumberMask)<<accountNumberShift |
		uint64(c.Parity)&parityMask
}

// ID32 returns the legacy short identifier. Universe, type and instance are
// not part of it.
func (c Components) ID32() uint32 {
	return c.AccountNumber*2 + uint32(c.Parity)
}

// ID64 rebuilds a 64-bit identifier from the account number, parity and the
// base offset of the account type. Universe and instance are not consulted,
// so the result only matches Raw for canonical individual and clan accounts.
func (c Components) ID64() (uint64, error) {
	base, ok := baseOffsets[c.AccountType]
	if !ok {
		return 0, &UnsupportedAccountTypeError{AccountType: c.AccountType}
	}
	return uint64(c.AccountNumber)*2 + uint64(c.Parity) + base, nil
}

// FromID32 expands a legacy short identifier into the canonical individual
// account on the public universe.
func FromID32(id32 uint32) Components {
	return Components{
		Universe:      UniversePublic,
		AccountType:   AccountTypeIndividual,
		Instance:      1,
		AccountNumber: id32 >> 1,
		Parity:        uint8(id32 & parityMask),
	}
}
