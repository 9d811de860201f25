package steamid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidID is returned by Parse for input in none of the accepted forms.
var ErrInvalidID = errors.New("invalid steam id")

var steam3Letters = map[AccountType]byte{
	AccountTypeInvalid:        'I',
	AccountTypeIndividual:     'U',
	AccountTypeMultiseat:      'M',
	AccountTypeGameServer:     'G',
	AccountTypeAnonGameServer: 'A',
	AccountTypePending:        'P',
	AccountTypeContentServer:  'C',
	AccountTypeClan:           'g',
	AccountTypeChat:           'T',
	AccountTypeAnonUser:       'a',
}

// Steam2 renders the STEAM_X:Y:Z textual form.
func (c Components) Steam2() string {
	return fmt.Sprintf("STEAM_%d:%d:%d", c.Universe, c.Parity, c.AccountNumber)
}

// Steam3 renders the bracketed [L:U:N] textual form. Individual accounts on a
// non-desktop instance carry the instance as a trailing field.
func (c Components) Steam3() string {
	letter, ok := steam3Letters[c.AccountType]
	if !ok {
		letter = 'I'
	}
	if c.AccountType == AccountTypeIndividual && c.Instance != 1 {
		return fmt.Sprintf("[%c:%d:%d:%d]", letter, c.Universe, c.ID32(), c.Instance)
	}
	return fmt.Sprintf("[%c:%d:%d]", letter, c.Universe, c.ID32())
}

// Parse accepts a decimal id64, a decimal legacy id32, a Steam2 string or a
// Steam3 string and returns the 64-bit identifier.
func Parse(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return 0, fmt.Errorf("%w: empty", ErrInvalidID)
	case strings.HasPrefix(strings.ToUpper(value), "STEAM_"):
		return parseSteam2(value)
	case strings.HasPrefix(value, "["):
		return parseSteam3(value)
	}

	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, value)
	}
	if parsed <= math.MaxUint32 {
		return FromID32(uint32(parsed)).Raw(), nil
	}
	return parsed, nil
}

func parseSteam2(value string) (uint64, error) {
	parts := strings.Split(value[len("STEAM_"):], ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, value)
	}
	universe, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: universe in %q", ErrInvalidID, value)
	}
	parity, err := strconv.ParseUint(parts[1], 10, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: parity in %q", ErrInvalidID, value)
	}
	number, err := strconv.ParseUint(parts[2], 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: account number in %q", ErrInvalidID, value)
	}
	// Older tooling writes universe 0 for public accounts.
	if universe == 0 {
		universe = uint64(UniversePublic)
	}
	return Components{
		Universe:      Universe(universe),
		AccountType:   AccountTypeIndividual,
		Instance:      1,
		AccountNumber: uint32(number),
		Parity:        uint8(parity),
	}.Raw(), nil
}

func parseSteam3(value string) (uint64, error) {
	if !strings.HasSuffix(value, "]") || len(value) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, value)
	}
	parts := strings.Split(value[1:len(value)-1], ":")
	if len(parts) != 3 && len(parts) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, value)
	}

	accountType, ok := steam3AccountType(parts[0])
	if !ok {
		return 0, fmt.Errorf("%w: account letter %q in %q", ErrInvalidID, parts[0], value)
	}
	var instance uint64
	if accountType == AccountTypeIndividual {
		instance = 1
	}

	universe, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: universe in %q", ErrInvalidID, value)
	}
	id32, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: account id in %q", ErrInvalidID, value)
	}
	if len(parts) == 4 {
		if accountType != AccountTypeIndividual {
			return 0, fmt.Errorf("%w: instance on non-individual account %q", ErrInvalidID, value)
		}
		if instance, err = strconv.ParseUint(parts[3], 10, 20); err != nil {
			return 0, fmt.Errorf("%w: instance in %q", ErrInvalidID, value)
		}
	}

	return Components{
		Universe:      Universe(universe),
		AccountType:   accountType,
		Instance:      uint32(instance),
		AccountNumber: uint32(id32 >> 1),
		Parity:        uint8(id32 & parityMask),
	}.Raw(), nil
}

// steam3AccountType maps a Steam3 letter back to its account type. Types
// rendered with the fallback 'I' parse as AccountTypeInvalid.
func steam3AccountType(letter string) (AccountType, bool) {
	if len(letter) != 1 {
		return 0, false
	}
	for accountType, l := range steam3Letters {
		if l == letter[0] {
			return accountType, true
		}
	}
	return 0, false
}
