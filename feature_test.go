package dashassets

import (
	"errors"
	"testing"
)

func TestDefaultFeatures(t *testing.T) {
	t.Parallel()

	features := DefaultFeatures()
	if err := ValidateFeatures(features); err != nil {
		t.Fatalf("ValidateFeatures(DefaultFeatures()) error = %v", err)
	}

	wantNames := []string{
		"scrollbar", "navbar-collapse", "tooltips", "nav-pills",
		"dropdown", "fixed-plugin", "navbar-main", "charts",
	}
	if len(features) != len(wantNames) {
		t.Fatalf("got %d features, want %d", len(features), len(wantNames))
	}
	for i, name := range wantNames {
		if features[i].Name != name {
			t.Errorf("features[%d].Name = %q, want %q", i, features[i].Name, name)
		}
	}

	if features[0].Selector != "" {
		t.Error("scrollbar must be unconditional")
	}

	t.Run("returns fresh copy", func(t *testing.T) {
		t.Parallel()

		a := DefaultFeatures()
		a[0].Name = "changed"
		if DefaultFeatures()[0].Name != "scrollbar" {
			t.Error("DefaultFeatures() shares state between calls")
		}
	})
}

func TestValidateFeatures(t *testing.T) {
	t.Parallel()

	script := AssetRef{Kind: Script, Path: "js/x.js"}

	tests := []struct {
		name     string
		features []Feature
		wantErr  bool
	}{
		{name: "empty table", features: nil},
		{name: "valid row", features: []Feature{{Name: "x", Selector: "[x]", Assets: []AssetRef{script}}}},
		{name: "unconditional row", features: []Feature{{Name: "x", Assets: []AssetRef{script}}}},
		{name: "missing name", features: []Feature{{Assets: []AssetRef{script}}}, wantErr: true},
		{
			name: "duplicate name",
			features: []Feature{
				{Name: "x", Assets: []AssetRef{script}},
				{Name: "x", Assets: []AssetRef{script}},
			},
			wantErr: true,
		},
		{name: "no assets", features: []Feature{{Name: "x"}}, wantErr: true},
		{name: "bad selector", features: []Feature{{Name: "x", Selector: "[[", Assets: []AssetRef{script}}}, wantErr: true},
		{name: "unknown kind", features: []Feature{{Name: "x", Assets: []AssetRef{{Kind: "image", Path: "a.png"}}}}, wantErr: true},
		{name: "empty path", features: []Feature{{Name: "x", Assets: []AssetRef{{Kind: Script}}}}, wantErr: true},
		{name: "absolute path", features: []Feature{{Name: "x", Assets: []AssetRef{{Kind: Script, Path: "/js/x.js"}}}}, wantErr: true},
		{name: "remote url", features: []Feature{{Name: "x", Assets: []AssetRef{{Kind: Script, Path: "https://cdn/x.js"}}}}, wantErr: true},
		{name: "backslash", features: []Feature{{Name: "x", Assets: []AssetRef{{Kind: Script, Path: `js\x.js`}}}}, wantErr: true},
		{name: "unclean path", features: []Feature{{Name: "x", Assets: []AssetRef{{Kind: Script, Path: "js/./x.js"}}}}, wantErr: true},
		{name: "escaping path", features: []Feature{{Name: "x", Assets: []AssetRef{{Kind: Script, Path: "../x.js"}}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateFeatures(tt.features)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFeature) {
					t.Errorf("ValidateFeatures() error = %v, want ErrInvalidFeature", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateFeatures() unexpected error: %v", err)
			}
		})
	}
}
