package trends

import (
	"context"
	"testing"
	"time"

	"github.com/astroaura/astroblog/internal/config"
)

func TestFromConfigWiresSources(t *testing.T) {
	d := FromConfig(config.TrendsConfig{
		Regions:   []string{"US", "GB"},
		Seeds:     []string{"astrology"},
		Wikipedia: true,
		TopK:      5,
		PerSource: 10,
		Timeout:   time.Second,
		CacheTTL:  time.Hour,
	})
	defer d.Close()

	var names []string
	for _, s := range d.Sources {
		names = append(names, s.Name())
	}
	want := []string{"google_trends:US", "google_trends:GB", "related_queries", "wikipedia"}
	if len(names) != len(want) {
		t.Fatalf("sources = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sources = %v, want %v", names, want)
		}
	}
	if d.Normalizer.TopK != 5 {
		t.Fatalf("top k = %d", d.Normalizer.TopK)
	}
}

func TestDiscoverFallsBackToDefault(t *testing.T) {
	d := &Discoverer{Sources: []Source{&countingSource{}}, Normalizer: NewNormalizer(3)}
	got := d.Discover(context.Background())
	if len(got) != 1 || got[0].Name != DefaultTopic().Name {
		t.Fatalf("topics = %+v", got)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
}
