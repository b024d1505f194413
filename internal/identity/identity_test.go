package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneForLookup(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "9876543210",
		"+91 98765 43210": "9876543210",
		"919876543210":    "9876543210",
		"09876543210":     "09876543210",
		"(987) 654-3210":  "9876543210",
		"not a number":    "",
		"":                "",
		"1234":            "1234",
		"441234567890":    "441234567890",
		"91-91234-56789 ": "9123456789",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhoneForLookup(in), "input %q", in)
	}
}

func TestNormalizePhoneForLookup_Idempotent(t *testing.T) {
	inputs := []string{"919876543210", "91919876543210", "9191", "", "0919876543210", "+91 91234 56789"}
	for _, in := range inputs {
		once := NormalizePhoneForLookup(in)
		assert.Equal(t, once, NormalizePhoneForLookup(once), "input %q", in)
	}
}

func TestPhoneToDeepLinkFormat(t *testing.T) {
	assert.Equal(t, "919876543210", PhoneToDeepLinkFormat("98765 43210", ""))
	assert.Equal(t, "919876543210", PhoneToDeepLinkFormat("09876543210", "91"))
	assert.Equal(t, "919876543210", PhoneToDeepLinkFormat("+91 98765 43210", "91"))
	assert.Equal(t, "12345", PhoneToDeepLinkFormat("12345", "91"))
	assert.Equal(t, "449876543210", PhoneToDeepLinkFormat("9876543210", "44"))
}

func TestWhatsAppDeepLink(t *testing.T) {
	link := WhatsAppDeepLink("9876543210", "Hello Dr. A & B", "91")
	assert.Equal(t, "https://wa.me/919876543210?text=Hello+Dr.+A+%26+B", link)

	assert.Equal(t, "https://wa.me/?text=hi", WhatsAppDeepLink("", "hi", "91"))
}

func TestCampaignIDRoundTrip(t *testing.T) {
	u := "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	norm := NormalizeCampaignID(u)

	assert.Len(t, norm, 32)
	assert.NotContains(t, norm, "-")
	assert.Equal(t, u, HyphenateCampaignID(norm))
	assert.Equal(t, u, HyphenateCampaignID(u))
	assert.Equal(t, norm, NormalizeCampaignID(HyphenateCampaignID(norm)))
}

func TestHyphenateCampaignID_NonUUIDPassesThrough(t *testing.T) {
	assert.Equal(t, "summer-campaign", HyphenateCampaignID(" summer-campaign "))
	assert.False(t, IsCampaignUUID("summer-campaign"))
	assert.True(t, IsCampaignUUID("3F2504E04F8911D39A0C0305E82C3301"))
}

func TestCampaignIDForms(t *testing.T) {
	assert.Equal(t,
		[]string{"3f2504e04f8911d39a0c0305e82c3301", "3f2504e0-4f89-11d3-9a0c-0305e82c3301"},
		CampaignIDForms("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.Equal(t, []string{"abc"}, CampaignIDForms("abc"))
	assert.Nil(t, CampaignIDForms("  "))
}

func TestCanonicalState(t *testing.T) {
	for _, in := range []string{"Orissa", "ORISSA", "orissa "} {
		assert.Equal(t, "Odisha", CanonicalState(in), "input %q", in)
	}
	assert.Equal(t, "Puducherry", CanonicalState("Pondicherry"))
	assert.Equal(t, "Delhi", CanonicalState("NCT of Delhi"))
	assert.Equal(t, "Jammu and Kashmir", CanonicalState("Jammu & Kashmir"))
	assert.Equal(t, "Andaman and Nicobar Islands", CanonicalState("Andaman  &  Nicobar Islands"))
	assert.Equal(t, "Dadra and Nagar Haveli and Daman and Diu", CanonicalState("Daman & Diu"))
	assert.Equal(t, "Tamil Nadu", CanonicalState("tamil   nadu"))
	assert.Equal(t, "Atlantis", CanonicalState(" Atlantis "))
	assert.Equal(t, "", CanonicalState("   "))
}

func TestStatesAndUTs(t *testing.T) {
	assert.Len(t, StatesAndUTs, 36)
	for _, s := range StatesAndUTs {
		assert.True(t, IsCanonicalState(s))
		assert.Equal(t, s, CanonicalState(strings.ToUpper(s)))
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{" A@x.com", "a@x.com", "", "b@y.com "}, LowerEmail)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, got)

	phones := Dedupe([]string{"+91 98765 43210", "9876543210", "abc"}, Last10Digits)
	assert.Equal(t, []string{"9876543210"}, phones)

	assert.Equal(t, []string{"x"}, Dedupe([]string{" x", "x "}, nil))
}

func TestPincodeDirectory_MapFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"110001":"NCT of Delhi","751001":"Orissa","12":"Goa"}`), 0o600))

	dir := NewPincodeDirectory(path)

	state, ok, err := dir.StateForPincode("110 001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Delhi", state)

	state, ok, err = dir.StateForPincode("751001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Odisha", state)

	_, ok, err = dir.StateForPincode("12")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 2, dir.Len())
}

func TestPincodeDirectory_ListFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.json")
	body := `[{"pincode":"560001","state":"Karnataka"},{"pin":600001,"State":"TAMIL NADU"},{"postal_code":"x","state":"Goa"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	dir := NewPincodeDirectory(path)
	state, ok, err := dir.StateForPincode("600001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Tamil Nadu", state)
	assert.Equal(t, 2, dir.Len())
}

func TestPincodeDirectory_MissingFile(t *testing.T) {
	dir := NewPincodeDirectory(filepath.Join(t.TempDir(), "absent.json"))
	_, _, err := dir.StateForPincode("110001")
	assert.ErrorIs(t, err, ErrDirectoryNotReady)
}

func TestDistrictLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/pincode/110001":
			w.Write([]byte(`[{"Status":"Success","PostOffice":[{"District":"Central Delhi","State":"Delhi"}]}]`))
		case "/pincode/999999":
			w.Write([]byte(`[{"Status":"Error","PostOffice":null}]`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	lookup := NewDistrictLookup(server.URL, time.Second, true, nil)
	ctx := context.Background()

	assert.Equal(t, "Central Delhi", lookup.DistrictForPincode(ctx, "110001"))
	assert.Equal(t, "", lookup.DistrictForPincode(ctx, "999999"))
	assert.Equal(t, "", lookup.DistrictForPincode(ctx, "500001"))
	assert.Equal(t, "", lookup.DistrictForPincode(ctx, "abc"))

	disabled := NewDistrictLookup(server.URL, time.Second, false, nil)
	assert.Equal(t, "", disabled.DistrictForPincode(ctx, "110001"))
}

func TestDistrictLookup_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	lookup := NewDistrictLookup(server.URL, 50*time.Millisecond, true, nil)
	assert.Equal(t, "", lookup.DistrictForPincode(context.Background(), "110001"))
}

func TestCampaignIDHelpers(t *testing.T) {
	assert.True(t, ValidCampaignID(" 3f2504e0-4f89-11d3-9a0c-0305e82c3301 "))
	assert.False(t, ValidCampaignID(""))
	assert.False(t, ValidCampaignID("abc'; DROP TABLE x"))

	assert.Equal(t, "15", TrailingDigits("fieldrep_15"))
	assert.Equal(t, "", TrailingDigits("FR"))
	assert.True(t, IsNumeric("0042"))
	assert.False(t, IsNumeric("FR09"))
	assert.False(t, IsNumeric(" "))
}
