package fontregistry

import (
	"testing"

	"github.com/npillmayer/flt/core"
	"github.com/npillmayer/flt/core/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestRegistryStoreAndDerive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.fonts")
	defer teardown()
	//
	fr := NewRegistry()
	fr.StoreFont("gosans", font.FallbackFont())
	tc, err := fr.TypeCase("gosans", 11)
	if err != nil {
		t.Fatal(err)
	}
	if tc.PtSize() != 11 {
		t.Errorf("expected typecase at 11pt, is %.1f", tc.PtSize())
	}
	// second request is served from the typecase cache
	tc2, err := fr.TypeCase("gosans", 11)
	if err != nil {
		t.Fatal(err)
	}
	if tc2 != tc {
		t.Error("expected cached typecase to be re-used")
	}
}

func TestRegistryFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flt.fonts")
	defer teardown()
	//
	fr := NewRegistry()
	tc, err := fr.TypeCase("no-such-font-xyz", 10)
	if err == nil {
		t.Error("expected an error substituting an unknown font")
	}
	if core.Code(err) != core.EMISSING {
		t.Errorf("expected EMISSING error code, have %d", core.Code(err))
	}
	if tc == nil || tc.ScalableFontParent() == nil {
		t.Fatal("expected a fallback typecase nevertheless")
	}
}
