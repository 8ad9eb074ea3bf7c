package types

import "testing"

func TestParseProjectKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ProjectKind
		wantErr bool
	}{
		{name: "npm", input: "npm", want: ProjectNPM},
		{name: "python", input: "python", want: ProjectPython},
		{name: "case insensitive", input: "Python", want: ProjectPython},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "ruby", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProjectKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProjectKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseProjectKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProjectKindManifestFile(t *testing.T) {
	if got := ProjectNPM.ManifestFile(); got != "package.json" {
		t.Errorf("ManifestFile() = %q", got)
	}
	if got := ProjectPython.ManifestFile(); got != "pyproject.toml" {
		t.Errorf("ManifestFile() = %q", got)
	}
}

func TestParseBumpKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BumpKind
		wantErr bool
	}{
		{name: "major", input: "major", want: BumpMajor},
		{name: "minor", input: "minor", want: BumpMinor},
		{name: "patch", input: "patch", want: BumpPatch},
		{name: "case insensitive", input: "PATCH", want: BumpPatch},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "hotfix", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBumpKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBumpKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBumpKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBumpKindValidate(t *testing.T) {
	for _, k := range AllBumpKinds() {
		if err := k.Validate(); err != nil {
			t.Errorf("Validate(%s) error = %v", k, err)
		}
	}
	if err := BumpKind("big").Validate(); err == nil {
		t.Error("Validate should reject unknown bump kinds")
	}
}
