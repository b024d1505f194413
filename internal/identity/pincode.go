package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
)

// ErrDirectoryNotReady is returned when the PIN directory file is missing or unreadable
var ErrDirectoryNotReady = errors.New("pincode directory not ready")

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// NormalizePincode returns the 6-digit PIN in raw, or "" when raw is not a valid PIN
func NormalizePincode(raw string) string {
	pin := DigitsOnly(raw)
	if !sixDigits.MatchString(pin) {
		return ""
	}
	return pin
}

// PincodeDirectory maps 6-digit PIN codes to canonical state names
type PincodeDirectory struct {
	path    string
	once    sync.Once
	entries map[string]string
	loadErr error
}

// NewPincodeDirectory creates a directory that loads path lazily on first use
func NewPincodeDirectory(path string) *PincodeDirectory {
	return &PincodeDirectory{path: path}
}

// NewPincodeDirectoryFromMap builds an in-memory directory
func NewPincodeDirectoryFromMap(entries map[string]string) *PincodeDirectory {
	d := &PincodeDirectory{}
	d.once.Do(func() {
		d.entries = make(map[string]string, len(entries))
		for pin, state := range entries {
			d.add(pin, state)
		}
	})
	return d
}

// StateForPincode returns the canonical state for pin. Malformed or unknown
// PINs report false; only a missing directory is an error.
func (d *PincodeDirectory) StateForPincode(pin string) (string, bool, error) {
	if err := d.load(); err != nil {
		return "", false, err
	}
	norm := NormalizePincode(pin)
	if norm == "" {
		return "", false, nil
	}
	state, ok := d.entries[norm]
	if !ok || state == "" {
		return "", false, nil
	}
	return CanonicalState(state), true, nil
}

// Len returns the number of loaded entries
func (d *PincodeDirectory) Len() int {
	if d.load() != nil {
		return 0
	}
	return len(d.entries)
}

func (d *PincodeDirectory) load() error {
	d.once.Do(func() {
		d.entries, d.loadErr = readDirectory(d.path)
	})
	return d.loadErr
}

func (d *PincodeDirectory) add(pin, state string) {
	norm := NormalizePincode(pin)
	canon := CanonicalState(state)
	if norm == "" || canon == "" {
		return
	}
	d.entries[norm] = canon
}

type directoryRow struct {
	Pincode    json.RawMessage `json:"pincode"`
	Pin        json.RawMessage `json:"pin"`
	PostalCode json.RawMessage `json:"postal_code"`
	State      string          `json:"state"`
	StateAlt   string          `json:"State"`
	StateName  string          `json:"state_name"`
}

func readDirectory(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryNotReady, path, err)
	}

	d := &PincodeDirectory{entries: make(map[string]string)}

	var asMap map[string]string
	if err := json.Unmarshal(data, &asMap); err == nil {
		for pin, state := range asMap {
			d.add(pin, state)
		}
		return d.entries, nil
	}

	var asList []directoryRow
	if err := json.Unmarshal(data, &asList); err != nil {
		return nil, fmt.Errorf("%w: unsupported format in %s", ErrDirectoryNotReady, path)
	}
	for _, row := range asList {
		pin := firstRaw(row.Pincode, row.Pin, row.PostalCode)
		state := firstNonEmpty(row.State, row.StateAlt, row.StateName)
		d.add(pin, state)
	}
	return d.entries, nil
}

// firstRaw accepts PINs encoded as either JSON strings or numbers
func firstRaw(values ...json.RawMessage) string {
	for _, v := range values {
		if len(v) == 0 || string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		return string(v)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
