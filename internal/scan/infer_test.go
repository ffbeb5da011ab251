// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Point Line and Plane", "point-line-and-plane"},
		{"punctuation stripped", "What is a Graph?", "what-is-a-graph"},
		{"collapses whitespace", "Bounding   Box  Demo", "bounding-box-demo"},
		{"collapses hyphens", "pre--made -- slug", "pre-made-slug"},
		{"trims hyphens", " -Edge Case- ", "edge-case"},
		{"already a slug", "point-line-and-plane", "point-line-and-plane"},
		{"mixed case with digits", "3D Rotation (Part 2)", "3d-rotation-part-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugIdempotent(t *testing.T) {
	inputs := []string{"Point Line and Plane", "What is a Graph?", "3D Rotation (Part 2)"}
	for _, in := range inputs {
		once := Slug(in)
		if twice := Slug(once); twice != once {
			t.Errorf("Slug not idempotent: Slug(%q) = %q but Slug(%q) = %q", in, once, once, twice)
		}
	}
}

func TestInferLibrary(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   string
	}{
		{"explicit field", "**Library:** vis-network\nmore text", "vis-network"},
		{"field wins over keywords", "**Library:** Chart.js\nbuilt with p5.js", "Chart.js"},
		{"implementation line", "Implementation: use chart.js for the bars", "Chart.js"},
		{"whole block keyword", "This timeline uses vis-timeline panning.", "vis-timeline"},
		{"chartjs variant", "render with chartjs", "Chart.js"},
		{"bare p5 keyword", "a p5 sketch", "p5.js"},
		{"microsim default", "An interactive MicroSim showing forces.", "p5.js"},
		{"no signal", "A static diagram with no hints.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferLibrary(tt.detail); got != tt.want {
				t.Errorf("InferLibrary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInferTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   string
	}{
		{"explicit field", "**Bloom's Taxonomy Level:** Apply\n", "Apply"},
		{"field with rationale cut at dash", "Bloom Level: Apply - students manipulate sliders", "Apply"},
		{"keyword", "Students will calculate the slope.", "Apply"},
		{"lowest rank wins", "Students design a network and identify its hubs.", "Remember"},
		{"understand before create", "Explain how to create a graph.", "Understand"},
		{"no signal", "A picture of a cat.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferTaxonomy(tt.detail); got != tt.want {
				t.Errorf("InferTaxonomy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaxonomyShort(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"Understand", "Understand (L2)"},
		{"apply", "apply (L3)"},
		{"Create", "Create (L6)"},
		{"Synthesize", "Synthesize"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TaxonomyShort(tt.level); got != tt.want {
			t.Errorf("TaxonomyShort(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestInferSimID(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		detail  string
		embedID string
		want    string
	}{
		{"directory name field", "Some Title", "Directory name: custom-dir\n", "", "custom-dir"},
		{"sim-id field", "Some Title", "**sim-id:** my-sim\n", "", "my-sim"},
		{"dirname wins over sim-id", "T", "Directory name: dir-a\n**sim-id:** id-b", "", "dir-a"},
		{"embed id beats slug", "Point Line and Plane", "no fields here", "plp", "plp"},
		{"dirname wins over embed id", "T", "Directory name: dir-a\n", "embed-id", "dir-a"},
		{"slug fallback", "Point Line and Plane", "no fields here", "", "point-line-and-plane"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferSimID(tt.title, tt.detail, tt.embedID); got != tt.want {
				t.Errorf("InferSimID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectLibrary(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"p5", `<script src="https://cdn.jsdelivr.net/npm/p5@1.11.10/lib/p5.js"></script>`, "p5.js"},
		{"p5 min", `<script src="/lib/p5.min.js"></script>`, "p5.js"},
		{"vis-network", `<script src=".../vis-network.min.js"></script>`, "vis-network"},
		{"chart.js", `<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.4/dist/chart.umd.min.js"></script>`, "Chart.js"},
		{"leaflet", `<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js">`, "Leaflet"},
		{"none", `<html><body>plain page</body></html>`, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLibrary(tt.html); got != tt.want {
				t.Errorf("DetectLibrary() = %q, want %q", got, tt.want)
			}
		})
	}
}
