package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeClampsCounts(t *testing.T) {
	cases := []struct {
		name          string
		count         FlexInt
		hashCount     FlexInt
		wantCount     int
		wantHashCount int
	}{
		{name: "absent", count: 0, hashCount: 0, wantCount: DefaultCaptionCount, wantHashCount: DefaultHashtagCount},
		{name: "negative", count: -5, hashCount: -1, wantCount: MinCaptionCount, wantHashCount: MinHashtagCount},
		{name: "below min", count: 1, hashCount: 1, wantCount: MinCaptionCount, wantHashCount: MinHashtagCount},
		{name: "in range", count: 3, hashCount: 12, wantCount: 3, wantHashCount: 12},
		{name: "above max", count: 100, hashCount: 20, wantCount: MaxCaptionCount, wantHashCount: MaxHashtagCount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Brief{Count: tc.count, HashCount: tc.hashCount}
			b.Normalize()
			if int(b.Count) != tc.wantCount {
				t.Fatalf("count: got %d, want %d", b.Count, tc.wantCount)
			}
			if int(b.HashCount) != tc.wantHashCount {
				t.Fatalf("hashCount: got %d, want %d", b.HashCount, tc.wantHashCount)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	b := Brief{}
	b.Normalize()
	if b.Tone != DefaultTone || b.Length != DefaultLength || b.Platform != DefaultPlatform {
		t.Fatalf("unexpected defaults: %+v", b)
	}
}

func TestBriefDecodeLenient(t *testing.T) {
	body := `{
		"product": "chicken coop",
		"benefits": "affordable; sturdy, easy to clean",
		"pains": ["expensive"],
		"count": "3",
		"hashCount": true
	}`

	var b Brief
	if err := json.Unmarshal([]byte(body), &b); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !reflect.DeepEqual([]string(b.Benefits), []string{"affordable", "sturdy", "easy to clean"}) {
		t.Fatalf("unexpected benefits: %v", b.Benefits)
	}
	if !reflect.DeepEqual([]string(b.Pains), []string{"expensive"}) {
		t.Fatalf("unexpected pains: %v", b.Pains)
	}
	if int(b.Count) != 3 {
		t.Fatalf("count: got %d, want 3", b.Count)
	}
	// Non-numeric decodes to zero and normalizes to the default.
	b.Normalize()
	if int(b.HashCount) != DefaultHashtagCount {
		t.Fatalf("hashCount: got %d, want %d", b.HashCount, DefaultHashtagCount)
	}
}

func TestStringListDecode(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: `["a","b"]`, want: []string{"a", "b"}},
		{in: `"a; b, c"`, want: []string{"a", "b", "c"}},
		{in: `" "`, want: nil},
		{in: `42`, want: nil},
		{in: `["", " x "]`, want: []string{"x"}},
	}

	for _, tc := range cases {
		var l StringList
		if err := json.Unmarshal([]byte(tc.in), &l); err != nil {
			t.Fatalf("decode %q failed: %v", tc.in, err)
		}
		if !reflect.DeepEqual([]string(l), tc.want) {
			t.Fatalf("decode %q: got %v, want %v", tc.in, l, tc.want)
		}
	}
}

func TestTerms(t *testing.T) {
	b := Brief{
		Product:  "glow serum",
		Audience: "tired parents",
		Benefits: StringList{"fast absorbing"},
		Pains:    StringList{"dull skin"},
	}
	want := []string{"glow", "serum", "tired", "parents", "fast", "absorbing", "dull", "skin"}
	if !reflect.DeepEqual(b.Terms(), want) {
		t.Fatalf("unexpected terms: %v", b.Terms())
	}
}
