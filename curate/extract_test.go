package curate

import (
	"testing"
)

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "code fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "trailing prose", in: `Sure! Here you go: {"captions":["a"]} hope that helps`, want: `{"captions":["a"]}`},
		{name: "nested braces", in: `x {"a":{"b":{"c":2}}} y`, want: `{"a":{"b":{"c":2}}}`},
		{name: "braces inside strings", in: `{"a":"}{","b":"\"{"}`, want: `{"a":"}{","b":"\"{"}`},
		{name: "last object wins", in: `first {"a":1} then {"b":2}`, want: `{"b":2}`},
		{name: "unclosed object", in: `{"a":1`, want: ""},
		{name: "no object", in: `no json here`, want: ""},
		{name: "stray closing brace", in: `} {"a":1}`, want: `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractObject(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeObjectStrict(t *testing.T) {
	var out ModelOutput
	if err := DecodeObject(`{"captions":["a"],"hashtags":["x"]}`, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(out.Captions) != 1 || out.Captions[0] != "a" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestDecodeObjectSalvage(t *testing.T) {
	raw := "Sure! Here you go: {\"captions\":[\"a\"],\"hashtags\":[\"#x\",\"#x\"]}"
	var out ModelOutput
	if err := DecodeObject(raw, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(out.Captions) != 1 || len(out.Hashtags) != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestDecodeObjectFailure(t *testing.T) {
	var out ModelOutput
	if err := DecodeObject("nothing to see", &out); err == nil {
		t.Fatalf("expected error")
	}
	if err := DecodeObject("", &out); err == nil {
		t.Fatalf("expected error for empty text")
	}
	if err := DecodeObject(`prose {"captions": [}`, &out); err == nil {
		t.Fatalf("expected error for malformed extracted object")
	}
}
