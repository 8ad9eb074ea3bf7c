package repos

import "testing"

func TestParseRemoteSlug(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "ssh remote",
			url:  "git@github.com:xanderwp/termutils.git",
			want: "xanderwp/termutils",
		},
		{
			name: "https remote",
			url:  "https://github.com/xanderwp/termutils.git",
			want: "xanderwp/termutils",
		},
		{
			name: "https without suffix",
			url:  "https://github.com/xanderwp/termutils",
			want: "xanderwp/termutils",
		},
		{
			name: "gitlab remote",
			url:  "https://gitlab.com/group/project.git",
			want: "group/project",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
		{
			name: "unrecognized host",
			url:  "https://example.com/owner/repo.git",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRemoteSlug(tt.url); got != tt.want {
				t.Errorf("ParseRemoteSlug(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	configured := []Repo{
		{Name: "termutils", Repo: "xanderwp/termutils"},
		{Name: "other", Repo: "xanderwp/other"},
	}

	matches := Detect(configured, "git@github.com:xanderwp/termutils.git")
	if len(matches) != 1 || matches[0].Name != "termutils" {
		t.Errorf("Detect() = %+v", matches)
	}

	if matches := Detect(configured, "git@github.com:someone/else.git"); len(matches) != 0 {
		t.Errorf("Detect() = %+v, want none", matches)
	}
}

func TestInferPairs(t *testing.T) {
	t.Run("pairs against present bases", func(t *testing.T) {
		pairs := InferPairs([]string{"feature-x", "develop", "main"})

		want := map[Pair]bool{
			{Head: "feature-x", Base: "main"}:    true,
			{Head: "feature-x", Base: "develop"}: true,
			{Head: "develop", Base: "main"}:      true,
			{Head: "main", Base: "develop"}:      true,
		}
		for _, p := range pairs {
			if !want[p] {
				t.Errorf("unexpected pair %+v", p)
			}
		}
		if len(pairs) != len(want) {
			t.Errorf("len(pairs) = %d, want %d: %+v", len(pairs), len(want), pairs)
		}
	})

	t.Run("cap respected", func(t *testing.T) {
		branches := []string{"main", "develop", "beta", "staging", "release", "master"}
		for i := 0; i < 20; i++ {
			branches = append(branches, "feature-"+string(rune('a'+i)))
		}
		pairs := InferPairs(branches)
		if len(pairs) > maxInferredPairs {
			t.Errorf("len(pairs) = %d, want <= %d", len(pairs), maxInferredPairs)
		}
	})

	t.Run("fallback pairs", func(t *testing.T) {
		pairs := InferPairs(nil)
		if len(pairs) != 6 {
			t.Errorf("len(pairs) = %d, want 6 fallback pairs", len(pairs))
		}
	})
}
