package fontregistry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/flt/core"
	"github.com/npillmayer/flt/core/font"
	"github.com/npillmayer/schuko/tracing"
)

// Registry is a type for holding information about loaded fonts for a
// typesetter.
type Registry struct {
	sync.Mutex
	fonts     map[string]*font.ScalableFont
	typecases map[string]*font.TypeCase
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts and typecases.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts:     make(map[string]*font.ScalableFont),
		typecases: make(map[string]*font.TypeCase),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// TypeCase returns a concrete typecase with a given font and size.
// If a suitable typecase has already been cached, TypeCase will return the
// cached typecase. If a suitable font has previously been stored under key
// `normalizedName`, a typecase will be derived from this font.
//
// If no typecase can be produced, TypeCase will derive one from a system-wide
// fallback font and return it, together with an error message.
func (fr *Registry) TypeCase(normalizedName string, size float32) (*font.TypeCase, error) {
	tracer().Debugf("registry searches for font %s at %.2f", normalizedName, size)
	tname := appendSize(normalizedName, size)
	fr.Lock()
	defer fr.Unlock()
	if t, ok := fr.typecases[tname]; ok {
		tracer().Infof("registry found font %s", tname)
		return t, nil
	}
	if f, ok := fr.fonts[normalizedName]; ok {
		t, err := f.PrepareCase(float64(size))
		tracer().Infof("font registry has font %s, caches at %.2f", normalizedName, size)
		fr.typecases[tname] = t
		return t, err
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	if f := findSystemFont(normalizedName); f != nil {
		fr.fonts[normalizedName] = f
		t, err := f.PrepareCase(float64(size))
		if err == nil {
			fr.typecases[tname] = t
			return t, nil
		}
	}
	fallback := font.FallbackFont()
	t, err := fallback.PrepareCase(float64(size))
	if err != nil {
		return font.NullTypeCase(), core.WrapError(err, core.EINTERNAL,
			"fallback font unusable: %v", err)
	}
	fr.typecases[tname] = t
	return t, core.Error(core.EMISSING, "font %s unknown, substituted %s",
		normalizedName, fallback.Fontname)
}

// findSystemFont searches the system's font directories for a font file
// matching name. Returns nil if no match is found or the file is unusable.
func findSystemFont(name string) *font.ScalableFont {
	path, err := findfont.Find(name + ".ttf")
	if err != nil {
		if path, err = findfont.Find(name + ".otf"); err != nil {
			return nil
		}
	}
	tracer().Debugf("found system font file %s", path)
	f, err := font.LoadOpenTypeFont(path)
	if err != nil {
		tracer().Infof("cannot parse system font %s: %v", path, err)
		return nil
	}
	return f
}

// LogFontList is a helper function to dump the list of known fonts and
// typecases in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.fonts {
		tracer().Infof("font [%s] = %v", k, v.Fontname)
	}
	for k, v := range fr.typecases {
		tracer().Infof("typecase [%s] = %v", k, v.ScalableFontParent().Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

func appendSize(fname string, size float32) string {
	fname = strings.TrimSuffix(fname, ".ttf")
	fname = strings.TrimSuffix(fname, ".otf")
	fname = fmt.Sprintf("%s-%.2f", fname, size)
	return fname
}
