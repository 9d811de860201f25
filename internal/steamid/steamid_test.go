package steamid_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"steameagle/internal/steamid"
)

const canonicalID64 uint64 = 76561198092541763

var canonical = steamid.Components{
	Universe:      steamid.UniversePublic,
	AccountType:   steamid.AccountTypeIndividual,
	Instance:      1,
	AccountNumber: 66138017,
	Parity:        1,
}

func TestDecodeCanonicalIndividual(t *testing.T) {
	got := steamid.Decode(canonicalID64)
	if got != canonical {
		t.Fatalf("Decode(%d) = %+v, want %+v", canonicalID64, got, canonical)
	}
}

func TestID64Canonical(t *testing.T) {
	got, err := canonical.ID64()
	if err != nil {
		t.Fatalf("ID64 returned error: %v", err)
	}
	if got != canonicalID64 {
		t.Fatalf("ID64 = %d, want %d", got, canonicalID64)
	}
}

func TestID32Canonical(t *testing.T) {
	if got := canonical.ID32(); got != 132276035 {
		t.Fatalf("ID32 = %d, want 132276035", got)
	}
}

func TestID64ClanOffset(t *testing.T) {
	clan := steamid.Components{
		Universe:      steamid.UniversePublic,
		AccountType:   steamid.AccountTypeClan,
		AccountNumber: 51,
		Parity:        0,
	}
	got, err := clan.ID64()
	if err != nil {
		t.Fatalf("ID64 returned error: %v", err)
	}
	if want := uint64(0x0170000000000000) + 102; got != want {
		t.Fatalf("ID64 = %#x, want %#x", got, want)
	}
	if decoded := steamid.Decode(got); decoded != clan {
		t.Fatalf("clan id did not decode back: %+v", decoded)
	}
}

func TestID64RejectsUnsupportedAccountTypes(t *testing.T) {
	for value := 0; value <= 15; value++ {
		accountType := steamid.AccountType(value)
		if accountType == steamid.AccountTypeIndividual || accountType == steamid.AccountTypeClan {
			continue
		}
		t.Run(accountType.String(), func(t *testing.T) {
			c := canonical
			c.AccountType = accountType
			id, err := c.ID64()
			if err == nil {
				t.Fatalf("expected error for account type %d, got id %d", value, id)
			}
			if !errors.Is(err, steamid.ErrUnsupportedAccountType) {
				t.Fatalf("expected ErrUnsupportedAccountType, got %v", err)
			}
			var typed *steamid.UnsupportedAccountTypeError
			if !errors.As(err, &typed) || typed.AccountType != accountType {
				t.Fatalf("expected typed error carrying %d, got %#v", value, err)
			}
		})
	}
}

// binaryFields mirrors the fixed-width binary string slicing the bit layout is
// defined by, so Decode can be checked against it independently.
func binaryFields(x uint64) steamid.Components {
	bits := fmt.Sprintf("%064b", x)
	parse := func(s string) uint64 {
		v, err := strconv.ParseUint(s, 2, 64)
		if err != nil {
			panic(err)
		}
		return v
	}
	return steamid.Components{
		Universe:      steamid.Universe(parse(bits[0:8])),
		AccountType:   steamid.AccountType(parse(bits[8:12])),
		Instance:      uint32(parse(bits[12:32])),
		AccountNumber: uint32(parse(bits[32:63])),
		Parity:        uint8(parse(bits[63:64])),
	}
}

func reassembleBinary(c steamid.Components) uint64 {
	bits := fmt.Sprintf("%08b%04b%020b%031b%01b", c.Universe, c.AccountType, c.Instance, c.AccountNumber, c.Parity)
	v, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		panic(err)
	}
	return v
}

func sampleIDs() []uint64 {
	values := []uint64{
		0,
		1,
		math.MaxUint64,
		math.MaxUint32,
		canonicalID64,
		0x0110000100000000,
		0x0170000000000000,
		1 << 63,
		1 << 56,
		1 << 52,
		1 << 32,
	}
	rng := rand.New(rand.NewPCG(42, 1024))
	for i := 0; i < 2000; i++ {
		values = append(values, rng.Uint64())
	}
	return values
}

func TestDecodeMatchesBinaryStringSlicing(t *testing.T) {
	for _, x := range sampleIDs() {
		got := steamid.Decode(x)
		want := binaryFields(x)
		if got != want {
			t.Fatalf("Decode(%d) = %+v, binary slicing gives %+v", x, got, want)
		}
	}
}

func TestDecodeRoundTripIsLossless(t *testing.T) {
	for _, x := range sampleIDs() {
		c := steamid.Decode(x)
		if raw := c.Raw(); raw != x {
			t.Fatalf("Decode(%d).Raw() = %d", x, raw)
		}
		if joined := reassembleBinary(c); joined != x {
			t.Fatalf("binary reassembly of Decode(%d) = %d", x, joined)
		}
	}
}

func TestDecodePreservesLeadingZeroFields(t *testing.T) {
	c := steamid.Decode(0x0000000100000003)
	want := steamid.Components{Instance: 1, AccountNumber: 1, Parity: 1}
	if c != want {
		t.Fatalf("Decode = %+v, want %+v", c, want)
	}
}

func TestID32IgnoresUniverseAndInstance(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 500; i++ {
		base := steamid.Components{
			AccountType:   steamid.AccountTypeIndividual,
			AccountNumber: uint32(rng.Uint64N(1 << 31)),
			Parity:        uint8(rng.Uint64N(2)),
		}
		if i%2 == 1 {
			base.AccountType = steamid.AccountTypeClan
		}
		want := base.ID32()
		for _, variant := range []steamid.Components{
			{Universe: 1, Instance: 1},
			{Universe: 4, Instance: 0xFFFFF},
			{Universe: 0xFF, Instance: 0},
		} {
			c := base
			c.Universe = variant.Universe
			c.Instance = variant.Instance
			if got := c.ID32(); got != want {
				t.Fatalf("ID32 changed with universe/instance: %d vs %d (%+v)", got, want, c)
			}
		}
	}
}

func TestID32MonotonicInAccountNumber(t *testing.T) {
	numbers := []uint32{0, 1, 2, 1000, 66138017, 1<<30 + 5, 1<<31 - 2, 1<<31 - 1}
	for _, parity := range []uint8{0, 1} {
		var prev uint32
		for i, n := range numbers {
			got := steamid.Components{AccountType: steamid.AccountTypeIndividual, AccountNumber: n, Parity: parity}.ID32()
			if i > 0 && got <= prev {
				t.Fatalf("ID32 not increasing: number %d gives %d after %d", n, got, prev)
			}
			prev = got
		}
	}
}

func TestID64MatchesRawForCanonicalAccounts(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	for i := 0; i < 500; i++ {
		c := steamid.FromID32(uint32(rng.Uint64()))
		id, err := c.ID64()
		if err != nil {
			t.Fatalf("ID64: %v", err)
		}
		if id != c.Raw() {
			t.Fatalf("ID64 %d != Raw %d for %+v", id, c.Raw(), c)
		}
	}
}

func TestID64IgnoresUniverseAndInstance(t *testing.T) {
	c := canonical
	c.Universe = steamid.UniverseDev
	c.Instance = 4
	got, err := c.ID64()
	if err != nil {
		t.Fatalf("ID64: %v", err)
	}
	if got != canonicalID64 {
		t.Fatalf("expected narrowing inverse to ignore universe/instance, got %d", got)
	}
	if c.Raw() == got {
		t.Fatal("expected Raw to differ from ID64 for a non-canonical account")
	}
}

func TestFromID32(t *testing.T) {
	if got := steamid.FromID32(132276035); got != canonical {
		t.Fatalf("FromID32 = %+v, want %+v", got, canonical)
	}
}

func TestTextForms(t *testing.T) {
	if got := canonical.Steam2(); got != "STEAM_1:1:66138017" {
		t.Fatalf("Steam2 = %q", got)
	}
	if got := canonical.Steam3(); got != "[U:1:132276035]" {
		t.Fatalf("Steam3 = %q", got)
	}
	clan := steamid.Components{Universe: 1, AccountType: steamid.AccountTypeClan, AccountNumber: 51}
	if got := clan.Steam3(); got != "[g:1:102]" {
		t.Fatalf("clan Steam3 = %q", got)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  uint64
	}{
		{"76561198092541763", canonicalID64},
		{"  76561198092541763\n", canonicalID64},
		{"132276035", canonicalID64},
		{"STEAM_1:1:66138017", canonicalID64},
		{"STEAM_0:1:66138017", canonicalID64},
		{"steam_1:1:66138017", canonicalID64},
		{"[U:1:132276035]", canonicalID64},
		{"[g:1:102]", 0x0170000000000000 + 102},
		{"[M:1:5]", 1<<56 | 2<<52 | 5},
		{"[a:1:5]", 1<<56 | 10<<52 | 5},
	}
	for _, tc := range cases {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			got, err := steamid.Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestSteam3RoundTripsEveryRenderedLetter(t *testing.T) {
	types := []steamid.AccountType{
		steamid.AccountTypeInvalid,
		steamid.AccountTypeIndividual,
		steamid.AccountTypeMultiseat,
		steamid.AccountTypeGameServer,
		steamid.AccountTypeAnonGameServer,
		steamid.AccountTypePending,
		steamid.AccountTypeContentServer,
		steamid.AccountTypeClan,
		steamid.AccountTypeChat,
		steamid.AccountTypeAnonUser,
	}
	for _, accountType := range types {
		c := steamid.Components{
			Universe:      steamid.UniversePublic,
			AccountType:   accountType,
			AccountNumber: 66138017,
			Parity:        1,
		}
		if accountType == steamid.AccountTypeIndividual {
			c.Instance = 1
		}
		text := c.Steam3()
		got, err := steamid.Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", text, err)
		}
		if got != c.Raw() {
			t.Fatalf("Parse(%q) = %d, want %d", text, got, c.Raw())
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "abc", "-1", "STEAM_1:2:5", "STEAM_1:1", "[X:1:5]", "[UU:1:5]", "[M:1:5:2]", "[U:1:abc]", "[U:1:5", "[g:1:5:2]"} {
		if _, err := steamid.Parse(input); !errors.Is(err, steamid.ErrInvalidID) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidID", input, err)
		}
	}
}

func TestComponentsJSON(t *testing.T) {
	data, err := json.Marshal(canonical)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"universe":1,"account_type":1,"account_instance":1,"account_number":66138017,"parity":1}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}
